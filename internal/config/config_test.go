package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialhub/go-services/internal/storage"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "socialhub_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	assert.Equal(t, "socialhub_test", cfg.MongoDB.Database)
	assert.Equal(t, "posts", cfg.MongoDB.PostsCollection)
	assert.Equal(t, "comments", cfg.MongoDB.CommentsCollection)
	assert.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, storage.BackendMinIO, cfg.Storage.Backend)
	assert.Equal(t, "media", cfg.Storage.Container)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "admin@example.com", cfg.Auth.Identity)
	assert.Equal(t, "static", cfg.Auth.CredentialStore)
	assert.True(t, cfg.Auth.RequireWrite)
	assert.False(t, cfg.Keycloak.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_BackendSelection(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendMemory, cfg.Storage.Backend)

	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendAzure, cfg.Storage.Backend)

	t.Setenv("STORAGE_BACKEND", "MINIO")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "MINIO_ENDPOINT")

	t.Setenv("STORAGE_BACKEND", "ftp")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "STORAGE_BACKEND")
}

func TestLoadConfig_MongoCredentialStoreNeedsURI(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("AUTH_CREDENTIAL_STORE", "mongo")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "MONGODB_URI")
}

func TestLoadConfig_WriteGuardToggle(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("AUTH_REQUIRE_WRITE", "false")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Auth.RequireWrite)
}

func TestLoadConfig_KeycloakNeedsClientID(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("KEYCLOAK_URL", "https://sso.example.com")
	t.Setenv("KEYCLOAK_REALM", "socialhub")
	t.Setenv("KEYCLOAK_CLIENT_ID", "")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "KEYCLOAK_CLIENT_ID")

	t.Setenv("KEYCLOAK_CLIENT_ID", "socialhub-api")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Keycloak.Enabled())
}
