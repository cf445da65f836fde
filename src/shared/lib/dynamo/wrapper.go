package dynamolib

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
)

func NewDynamoDB(dynamoConfig config.Dynamo) DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())
	return NewDynamoDBWrapper(dynamo.New(dbSession, dynamoConfig.AWSConfig()))
}

func NewDynamoDBWrapper(db *dynamo.DB) DynamoDBWrapper {
	return DynamoDBWrapper{DB: db}
}

type DynamoDBWrapper struct {
	*dynamo.DB
}

// EnsureTable creates a table keyed by a string hash key when it is missing,
// which is what local DynamoDB needs on first boot
func (d DynamoDBWrapper) EnsureTable(tableName string, from any) error {
	tables, err := d.DB.ListTables().All()
	if err != nil {
		return err
	}

	for _, table := range tables {
		if table == tableName {
			return nil
		}
	}

	return d.DB.CreateTable(tableName, from).OnDemand(true).Run()
}
