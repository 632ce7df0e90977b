package storage

// Backend names accepted by New.
const (
	BackendMinIO  = "minio"
	BackendAzure  = "azure"
	BackendMemory = "memory"
)

// Config selects and configures the media backend.
type Config struct {
	Backend   string
	Container string
	MinIO     MinIOConfig
	Azure     AzureConfig
}

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// AzureConfig holds Azure Blob Storage connection configuration. The connection
// string wins when both fields are set; an account URL alone authenticates with
// the default Azure credential chain.
type AzureConfig struct {
	ConnectionString string
	AccountURL       string
}
