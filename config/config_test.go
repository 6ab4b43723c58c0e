package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvironmentLocal, cfg.Environment)
	assert.Equal(t, "orderdesk", cfg.ProjectName)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, MQBackendNone, cfg.MQ.Backend)
	assert.Equal(t, "orderdesk.events", cfg.MQ.RabbitMQ.Exchange)
	assert.Equal(t, "orderdesk-events", cfg.MQ.PubSub.Topic)
	assert.Equal(t, "-sub", cfg.MQ.PubSub.SubscriptionSuffix)
	assert.Equal(t, StorageBackendMinio, cfg.Storage.Backend)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("API_V1_STR", "/api/v2")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("POSTGRES_SERVER", "db")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("MQ_BACKEND", "rabbitmq")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("STORAGE_BUCKET", "backups")
	t.Setenv("BACKEND_CORS_ORIGINS", "http://localhost:3000/, https://app.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvironmentProduction, cfg.Environment)
	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.MQ.RabbitMQ.URL)
	assert.Equal(t, "gcs", cfg.Storage.Backend)
	assert.Equal(t, "backups", cfg.Storage.Bucket)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"ENVIRONMENT", "qa", "ENVIRONMENT must be one of"},
		{"MQ_BACKEND", "kafka", "MQ_BACKEND must be one of"},
		{"STORAGE_BACKEND", "s3", "STORAGE_BACKEND must be one of"},
		{"API_V1_STR", "api", "API_V1_STR must start with a slash"},
		{"SERVER_PORT", "eighty", "load config"},
		{"BACKEND_CORS_ORIGINS", `["unterminated`, "BACKEND_CORS_ORIGINS"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfig()
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestParseOrigins_JSONArray(t *testing.T) {
	origins, err := parseOrigins(`["http://a.test/", "http://b.test"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "orders"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/orders?sslmode=disable", cfg.URL())

	cfg.UseSSL = true
	assert.Contains(t, cfg.URL(), "sslmode=require")
}
