package container

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options is parsed by humacli from flags and SERVICE_* environment variables.
type Options struct {
	Port    int    `default:"8888" doc:"Port to listen on" short:"p"`
	BaseURL string `default:"" doc:"Public base URL of short links (default http://localhost:PORT)"`

	LogFormat string `default:"json" doc:"Log encoding: json or console"`
	LogLevel  string `default:"info" doc:"Minimum log level"`

	CodeLength      int `default:"6" doc:"Length of generated short codes" short:"c"`
	MaxCodeAttempts int `default:"10" doc:"Short code attempts before giving up"`
	CacheTTLSeconds int `default:"3600" doc:"Lifetime of cached payloads in seconds"`

	StoreBackend string `default:"postgres" doc:"Record store: postgres or memory"`

	RedisAddr     string `default:"localhost:6379" doc:"Redis server address" short:"r"`
	RedisPassword string `default:"" doc:"Redis password"`
	RedisDB       int    `default:"0" doc:"Redis database number"`

	PostgresURL            string `default:"" doc:"Postgres connection URL, overrides the discrete settings"`
	PostgresHost           string `default:"localhost" doc:"Postgres host"`
	PostgresPort           int    `default:"5432" doc:"Postgres port"`
	PostgresUser           string `default:"postgres" doc:"Postgres user"`
	PostgresPassword       string `default:"postgres" doc:"Postgres password"`
	PostgresDB             string `default:"shortlinks" doc:"Postgres database name"`
	PostgresSSLMode        string `default:"disable" doc:"Postgres sslmode"`
	PostgresConnectTimeout int    `default:"5" doc:"Postgres connect timeout in seconds"`

	SecretKey                string `default:"" doc:"Secret used to sign access tokens"`
	TokenAlgorithm           string `default:"HS256" doc:"Access token signing algorithm"`
	AccessTokenExpireMinutes int    `default:"30" doc:"Access token lifetime in minutes"`
	BcryptCost               int    `default:"10" doc:"bcrypt cost for password hashes"`

	CORSOrigins string `default:"*" doc:"Comma separated list of allowed CORS origins"`
}

// Validate checks the options once at startup and reports every problem.
func (o *Options) Validate() error {
	var err error

	if o.Port <= 0 || o.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("port %d out of range", o.Port))
	}

	if o.LogFormat != "json" && o.LogFormat != "console" {
		err = multierr.Append(err, fmt.Errorf("unknown log format %q", o.LogFormat))
	}

	if _, lvlErr := zapcore.ParseLevel(o.LogLevel); lvlErr != nil {
		err = multierr.Append(err, lvlErr)
	}

	if o.CodeLength <= 0 {
		err = multierr.Append(err, errors.New("code length must be positive"))
	} else if o.CodeLength > shortener.MaxCodeLength {
		err = multierr.Append(err, fmt.Errorf("code length %d exceeds %d", o.CodeLength, shortener.MaxCodeLength))
	}

	if o.MaxCodeAttempts <= 0 {
		err = multierr.Append(err, errors.New("max code attempts must be positive"))
	}

	if o.CacheTTLSeconds <= 0 {
		err = multierr.Append(err, errors.New("cache ttl must be positive"))
	}

	if o.StoreBackend != BackendPostgres && o.StoreBackend != BackendMemory {
		err = multierr.Append(err, fmt.Errorf("unknown store backend %q", o.StoreBackend))
	}

	if o.SecretKey == "" {
		err = multierr.Append(err, errors.New("secret key is required"))
	}

	if _, ok := jwt.GetSigningMethod(o.TokenAlgorithm).(*jwt.SigningMethodHMAC); !ok {
		err = multierr.Append(err, fmt.Errorf("unsupported token algorithm %q", o.TokenAlgorithm))
	}

	if o.AccessTokenExpireMinutes <= 0 {
		err = multierr.Append(err, errors.New("access token lifetime must be positive"))
	}

	if o.BaseURL != "" {
		if u, urlErr := url.Parse(o.BaseURL); urlErr != nil || u.Scheme == "" || u.Host == "" {
			err = multierr.Append(err, fmt.Errorf("invalid base url %q", o.BaseURL))
		}
	}

	return err
}

// DatabaseURL returns PostgresURL when set, otherwise a URL built from the
// discrete Postgres settings.
func (o *Options) DatabaseURL() string {
	if o.PostgresURL != "" {
		return o.PostgresURL
	}

	query := url.Values{}
	query.Set("sslmode", o.PostgresSSLMode)
	query.Set("connect_timeout", strconv.Itoa(o.PostgresConnectTimeout))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(o.PostgresUser, o.PostgresPassword),
		Host:     net.JoinHostPort(o.PostgresHost, strconv.Itoa(o.PostgresPort)),
		Path:     "/" + o.PostgresDB,
		RawQuery: query.Encode(),
	}

	return u.String()
}

// PublicBaseURL is the prefix of every short link handed out.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

func (o *Options) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLSeconds) * time.Second
}

func (o *Options) AccessTokenTTL() time.Duration {
	return time.Duration(o.AccessTokenExpireMinutes) * time.Minute
}

// AllowedOrigins splits CORSOrigins, dropping empty entries.
func (o *Options) AllowedOrigins() []string {
	var origins []string

	for _, origin := range strings.Split(o.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}
