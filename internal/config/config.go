// Package config loads service configuration from the environment (and an
// optional .env file) through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/socialhub/go-services/internal/storage"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Storage   storage.Config
	JWT       JWTConfig
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Keycloak  KeycloakConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

type MongoDBConfig struct {
	URI                string
	Database           string
	Timeout            time.Duration
	PostsCollection    string
	CommentsCollection string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type AuthConfig struct {
	Identity string
	Secret   string
	// CredentialStore is "static" or "mongo".
	CredentialStore string
	RequireWrite    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is empty when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

// Enabled reports whether an external OIDC issuer is configured.
func (k KeycloakConfig) Enabled() bool { return k.URL != "" && k.Realm != "" }

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "socialhub")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_POSTS_COLLECTION", "posts")
	v.SetDefault("MONGODB_COMMENTS_COLLECTION", "comments")
	v.SetDefault("STORAGE_CONTAINER", "media")
	v.SetDefault("JWT_ISSUER", "socialhub")
	v.SetDefault("JWT_AUDIENCE", "socialhub-api")
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("AUTH_IDENTITY", "admin@example.com")
	v.SetDefault("AUTH_SECRET", "password")
	v.SetDefault("AUTH_CREDENTIAL_STORE", "static")
	v.SetDefault("AUTH_REQUIRE_WRITE", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:                v.GetString("MONGODB_URI"),
			Database:           v.GetString("MONGODB_DATABASE"),
			Timeout:            time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			PostsCollection:    v.GetString("MONGODB_POSTS_COLLECTION"),
			CommentsCollection: v.GetString("MONGODB_COMMENTS_COLLECTION"),
		},
		Storage: storage.Config{
			Backend:   strings.ToLower(v.GetString("STORAGE_BACKEND")),
			Container: v.GetString("STORAGE_CONTAINER"),
			MinIO: storage.MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
				Region:    v.GetString("MINIO_REGION"),
			},
			Azure: storage.AzureConfig{
				ConnectionString: v.GetString("AZURE_STORAGE_CONNECTION_STRING"),
				AccountURL:       v.GetString("AZURE_STORAGE_ACCOUNT_URL"),
			},
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Issuer:   v.GetString("JWT_ISSUER"),
			Audience: v.GetString("JWT_AUDIENCE"),
			TTL:      time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
		},
		Auth: AuthConfig{
			Identity:        v.GetString("AUTH_IDENTITY"),
			Secret:          v.GetString("AUTH_SECRET"),
			CredentialStore: strings.ToLower(v.GetString("AUTH_CREDENTIAL_STORE")),
			RequireWrite:    v.GetBool("AUTH_REQUIRE_WRITE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Keycloak: KeycloakConfig{
			URL:      v.GetString("KEYCLOAK_URL"),
			Realm:    v.GetString("KEYCLOAK_REALM"),
			ClientID: v.GetString("KEYCLOAK_CLIENT_ID"),
		},
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = inferBackend(cfg.Storage)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// inferBackend picks the backend whose credentials are present.
func inferBackend(s storage.Config) string {
	switch {
	case s.Azure.ConnectionString != "" || s.Azure.AccountURL != "":
		return storage.BackendAzure
	case s.MinIO.Endpoint != "":
		return storage.BackendMinIO
	default:
		return storage.BackendMemory
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Storage.Backend {
	case storage.BackendMinIO:
		if c.Storage.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required for the minio backend"))
		}
	case storage.BackendAzure:
		if c.Storage.Azure.ConnectionString == "" && c.Storage.Azure.AccountURL == "" {
			errs = append(errs, errors.New("AZURE_STORAGE_CONNECTION_STRING or AZURE_STORAGE_ACCOUNT_URL is required for the azure backend"))
		}
	case storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}
	switch c.Auth.CredentialStore {
	case "static":
		if c.Auth.Identity == "" || c.Auth.Secret == "" {
			errs = append(errs, errors.New("AUTH_IDENTITY and AUTH_SECRET are required for the static credential store"))
		}
	case "mongo":
		if c.MongoDB.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo credential store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_CREDENTIAL_STORE %q", c.Auth.CredentialStore))
	}
	if c.Keycloak.Enabled() && c.Keycloak.ClientID == "" {
		errs = append(errs, errors.New("KEYCLOAK_CLIENT_ID is required when KEYCLOAK_URL and KEYCLOAK_REALM are set"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	return errors.Join(errs...)
}
