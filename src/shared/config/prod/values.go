package prod

const (
	DynamoDBRegion      = "us-east-1"
	GOOGLE_STORAGE_HOST = "https://storage.googleapis.com"
)
