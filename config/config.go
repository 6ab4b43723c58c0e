package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvironmentLocal      = "local"
	EnvironmentStaging    = "staging"
	EnvironmentProduction = "production"

	MQBackendNone     = "none"
	MQBackendRabbitMQ = "rabbitmq"
	MQBackendPubSub   = "pubsub"

	StorageBackendMinio = "minio"
	StorageBackendGCS   = "gcs"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	ProjectName string `envconfig:"PROJECT_NAME" default:"orderdesk"`
	APIPrefix   string `envconfig:"API_V1_STR" default:"/api/v1"`
	ServerPort  int    `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOriginsRaw accepts either a comma separated list or a JSON array.
	CORSOriginsRaw string   `envconfig:"BACKEND_CORS_ORIGINS"`
	CORSOrigins    []string `ignored:"true"`

	Database DatabaseConfig `ignored:"true"`
	MQ       MQConfig       `ignored:"true"`
	Storage  StorageConfig  `ignored:"true"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_SERVER" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"orderdesk"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"password"`
	DBName   string `envconfig:"POSTGRES_DB" default:"orderdesk"`
	UseSSL   bool   `envconfig:"POSTGRES_USE_SSL" default:"false"`
	LogLevel string `envconfig:"DB_LOG_LEVEL" default:"warn"`
}

type MQConfig struct {
	Backend  string         `envconfig:"MQ_BACKEND" default:"none"`
	RabbitMQ RabbitMQConfig `ignored:"true"`
	PubSub   PubSubConfig   `ignored:"true"`
}

type RabbitMQConfig struct {
	URL             string `envconfig:"RABBITMQ_URL"`
	Exchange        string `envconfig:"RABBITMQ_EXCHANGE" default:"orderdesk.events"`
	QueueDurable    bool   `envconfig:"RABBITMQ_QUEUE_DURABLE" default:"false"`
	QueueAutoDelete bool   `envconfig:"RABBITMQ_QUEUE_AUTO_DELETE" default:"true"`
	PrefetchCount   int    `envconfig:"RABBITMQ_PREFETCH_COUNT" default:"10"`
}

type PubSubConfig struct {
	ProjectID          string `envconfig:"PUBSUB_PROJECT_ID"`
	CredentialsFile    string `envconfig:"PUBSUB_CREDENTIALS_FILE"`
	Topic              string `envconfig:"PUBSUB_TOPIC" default:"orderdesk-events"`
	SubscriptionSuffix string `envconfig:"PUBSUB_SUBSCRIPTION_SUFFIX" default:"-sub"`
}

type StorageConfig struct {
	Backend string      `envconfig:"STORAGE_BACKEND" default:"minio"`
	Bucket  string      `envconfig:"STORAGE_BUCKET" default:"orderdesk-snapshots"`
	Minio   MinioConfig `ignored:"true"`
	GCS     GCSConfig   `ignored:"true"`
}

type MinioConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type GCSConfig struct {
	ProjectID       string `envconfig:"GCS_PROJECT_ID"`
	CredentialsFile string `envconfig:"GCS_CREDENTIALS_FILE"`
}

// URL returns the postgres connection URL for the database.
func (c DatabaseConfig) URL() string {
	sslmode := "disable"
	if c.UseSSL {
		sslmode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		User:   url.UserPassword(c.User, c.Password),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LoadConfig reads the configuration from the environment. With ENV=dev a
// local .env file is loaded first.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	sections := []any{
		&cfg,
		&cfg.Database,
		&cfg.MQ,
		&cfg.MQ.RabbitMQ,
		&cfg.MQ.PubSub,
		&cfg.Storage,
		&cfg.Storage.Minio,
		&cfg.Storage.GCS,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	origins, err := parseOrigins(cfg.CORSOriginsRaw)
	if err != nil {
		return Config{}, fmt.Errorf("BACKEND_CORS_ORIGINS: %w", err)
	}
	cfg.CORSOrigins = origins

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Environment {
	case EnvironmentLocal, EnvironmentStaging, EnvironmentProduction:
	default:
		return fmt.Errorf("ENVIRONMENT must be one of local, staging, production, got %q", c.Environment)
	}
	switch c.MQ.Backend {
	case MQBackendNone, MQBackendRabbitMQ, MQBackendPubSub:
	default:
		return fmt.Errorf("MQ_BACKEND must be one of none, rabbitmq, pubsub, got %q", c.MQ.Backend)
	}
	switch c.Storage.Backend {
	case StorageBackendMinio, StorageBackendGCS:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of minio, gcs, got %q", c.Storage.Backend)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_V1_STR must start with a slash, got %q", c.APIPrefix)
	}
	return nil
}

func parseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil, err
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins, nil
}
