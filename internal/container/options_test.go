package container_test

import (
	"testing"
	"time"

	"github.com/serroba/shortlinks/internal/container"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func validOptions() *container.Options {
	return &container.Options{
		Port:                     8888,
		LogFormat:                "json",
		LogLevel:                 "info",
		CodeLength:               6,
		MaxCodeAttempts:          10,
		CacheTTLSeconds:          3600,
		StoreBackend:             container.BackendPostgres,
		RedisAddr:                "localhost:6379",
		PostgresHost:             "db",
		PostgresPort:             5432,
		PostgresUser:             "app",
		PostgresPassword:         "s3cr3t",
		PostgresDB:               "shortlinks",
		PostgresSSLMode:          "disable",
		PostgresConnectTimeout:   5,
		SecretKey:                "secret",
		TokenAlgorithm:           "HS256",
		AccessTokenExpireMinutes: 30,
		BcryptCost:               10,
		CORSOrigins:              "*",
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Run("accepts defaults", func(t *testing.T) {
		require.NoError(t, validOptions().Validate())
	})

	t.Run("accepts the widest code", func(t *testing.T) {
		opts := validOptions()
		opts.CodeLength = shortener.MaxCodeLength

		require.NoError(t, opts.Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		opts := validOptions()
		opts.Port = 0
		opts.LogFormat = "xml"
		opts.LogLevel = "loud"
		opts.CodeLength = 0
		opts.StoreBackend = "mongo"
		opts.SecretKey = ""
		opts.TokenAlgorithm = "RS256"
		opts.BaseURL = "not a url"

		err := opts.Validate()

		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 8)
		assert.ErrorContains(t, err, `unknown store backend "mongo"`)
		assert.ErrorContains(t, err, "secret key is required")
	})

	tests := []struct {
		name   string
		mutate func(*container.Options)
	}{
		{"negative attempts", func(o *container.Options) { o.MaxCodeAttempts = -1 }},
		{"zero ttl", func(o *container.Options) { o.CacheTTLSeconds = 0 }},
		{"zero token lifetime", func(o *container.Options) { o.AccessTokenExpireMinutes = 0 }},
		{"port too large", func(o *container.Options) { o.Port = 70000 }},
		{"code length above column width", func(o *container.Options) { o.CodeLength = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(opts)

			assert.Error(t, opts.Validate())
		})
	}
}

func TestOptions_DatabaseURL(t *testing.T) {
	t.Run("built from discrete settings", func(t *testing.T) {
		assert.Equal(t,
			"postgres://app:s3cr3t@db:5432/shortlinks?connect_timeout=5&sslmode=disable",
			validOptions().DatabaseURL())
	})

	t.Run("explicit url wins", func(t *testing.T) {
		opts := validOptions()
		opts.PostgresURL = "postgres://u:p@elsewhere/db"

		assert.Equal(t, "postgres://u:p@elsewhere/db", opts.DatabaseURL())
	})

	t.Run("escapes credentials", func(t *testing.T) {
		opts := validOptions()
		opts.PostgresPassword = "p@ss/word"

		assert.Contains(t, opts.DatabaseURL(), "app:p%40ss%2Fword@db")
	})
}

func TestOptions_Derived(t *testing.T) {
	opts := validOptions()

	assert.Equal(t, "http://localhost:8888", opts.PublicBaseURL())
	assert.Equal(t, time.Hour, opts.CacheTTL())
	assert.Equal(t, 30*time.Minute, opts.AccessTokenTTL())

	opts.BaseURL = "https://sho.rt/"
	assert.Equal(t, "https://sho.rt", opts.PublicBaseURL())

	opts.CORSOrigins = "https://a.example, ,https://b.example"
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, opts.AllowedOrigins())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := container.NewLogger(format, "debug")

		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}

	_, err := container.NewLogger("json", "loud")
	assert.Error(t, err)
}
