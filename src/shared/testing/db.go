package testing

import (
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/storage"
)

// MakeTestDB talks to the local DynamoDB, each region acting as its own
// database so suites don't trample each other
func MakeTestDB(testRegion string) dynamolib.DynamoDBWrapper {
	return dynamolib.NewDynamoDB(DynamoConfig(testRegion))
}

// ResetDB drops every table and recreates the job table
func ResetDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
	ExpectWithOffset(1, transcriptionstorage.NewDB(db).EnsureTable()).To(Succeed())
}

func BeforeSuiteDB(testRegion string) dynamolib.DynamoDBWrapper {
	db := MakeTestDB(testRegion)
	DeleteAllTables(db)
	return db
}

func AfterSuiteDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
}

func DeleteAllTables(db dynamolib.DynamoDBWrapper) {
	tableNames := ExpectSuccess(db.ListTables().All())

	for _, tableName := range tableNames {
		err := db.Table(tableName).DeleteTable().Run()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
}
