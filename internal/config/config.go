// Package config loads service configuration from TOML files and XB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Session store backends
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendDynamoDB = "dynamodb"
)

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Session   SessionConfig   `toml:"session"`
	OAuth     OAuthConfig     `toml:"oauth"`
	Crypto    CryptoConfig    `toml:"crypto"`
	Logging   LoggingConfig   `toml:"logging"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	// SecretsFrom selects where *_param references resolve: "env" or "ssm"
	SecretsFrom string `toml:"secrets_from"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string `toml:"host"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	Port            int    `toml:"port"`
}

// Addr returns host:port
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SessionConfig selects and tunes the session store
type SessionConfig struct {
	Backend      string `toml:"backend"`
	TTL          string `toml:"ttl"`
	Secret       string `toml:"secret"`
	SecretParam  string `toml:"secret_param"`
	CookieName   string `toml:"cookie_name"`
	BoltPath     string `toml:"bolt_path"`
	DynamoTable  string `toml:"dynamo_table"`
	DynamoRegion string `toml:"dynamo_region"`
	// DynamoEndpoint points at DynamoDB Local or another compatible endpoint
	DynamoEndpoint string `toml:"dynamo_endpoint"`
	MaxEntries     int    `toml:"max_entries"`
	CookieSecure   bool   `toml:"cookie_secure"`
}

// OAuthConfig describes the X OAuth 2.0 client
type OAuthConfig struct {
	ClientID          string   `toml:"client_id"`
	ClientSecret      string   `toml:"client_secret"`
	ClientSecretParam string   `toml:"client_secret_param"`
	CallbackURL       string   `toml:"callback_url"`
	AuthURL           string   `toml:"auth_url"`
	TokenURL          string   `toml:"token_url"`
	ProfileURL        string   `toml:"profile_url"`
	StateTTL          string   `toml:"state_ttl"`
	LandingPath       string   `toml:"landing_path"`
	HTTPTimeout       string   `toml:"http_timeout"`
	Scopes            []string `toml:"scopes"`
}

// CryptoConfig selects how refresh tokens are sealed at rest.
// KMSKeyID wins over TokenKey when both are set.
type CryptoConfig struct {
	TokenKey      string `toml:"token_key"`
	TokenKeyParam string `toml:"token_key_param"`
	TokenKeySalt  string `toml:"token_key_salt"`
	KMSKeyID      string `toml:"kms_key_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json, text or auto
}

// RateLimitConfig bounds requests per client on the auth routes
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Path: "xbookmarks.db",
		},
		Session: SessionConfig{
			Backend:      BackendMemory,
			TTL:          "12h",
			CookieName:   "xb_session",
			BoltPath:     "sessions.db",
			DynamoTable:  "xbookmarks-sessions",
			MaxEntries:   10000,
			CookieSecure: true,
		},
		OAuth: OAuthConfig{
			CallbackURL: "http://localhost:8080/auth/x/callback",
			AuthURL:     "https://x.com/i/oauth2/authorize",
			TokenURL:    "https://api.x.com/2/oauth2/token",
			ProfileURL:  "https://api.x.com/2/users/me",
			Scopes:      []string{"tweet.read", "users.read", "bookmark.read", "offline.access"},
			StateTTL:    "5m",
			LandingPath: "/dashboard",
			HTTPTimeout: "10s",
		},
		Crypto: CryptoConfig{
			TokenKeySalt: "xbookmarks-refresh-token-v1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             10,
		},
		SecretsFrom: "env",
	}
}

// LoadConfig merges config files over defaults (later files win), then
// applies environment overrides. Missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config, os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("XB_HOST", &config.Server.Host)
	if v, ok := lookup("XB_PORT"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	str("XB_DATABASE_PATH", &config.Database.Path)

	str("XB_SESSION_BACKEND", &config.Session.Backend)
	str("XB_SESSION_TTL", &config.Session.TTL)
	str("XB_SESSION_SECRET", &config.Session.Secret)
	str("XB_SESSION_BOLT_PATH", &config.Session.BoltPath)
	str("XB_SESSION_DYNAMO_TABLE", &config.Session.DynamoTable)
	str("XB_SESSION_DYNAMO_REGION", &config.Session.DynamoRegion)
	str("XB_SESSION_DYNAMO_ENDPOINT", &config.Session.DynamoEndpoint)
	if v, ok := lookup("XB_SESSION_COOKIE_SECURE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Session.CookieSecure = b
		}
	}

	str("XB_OAUTH_CLIENT_ID", &config.OAuth.ClientID)
	str("XB_OAUTH_CLIENT_SECRET", &config.OAuth.ClientSecret)
	str("XB_OAUTH_CALLBACK_URL", &config.OAuth.CallbackURL)
	if v, ok := lookup("XB_OAUTH_SCOPES"); ok && v != "" {
		config.OAuth.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}

	str("XB_CRYPTO_TOKEN_KEY", &config.Crypto.TokenKey)
	str("XB_CRYPTO_KMS_KEY_ID", &config.Crypto.KMSKeyID)

	str("XB_LOG_LEVEL", &config.Logging.Level)
	str("XB_LOG_FORMAT", &config.Logging.Format)
	str("XB_SECRETS_FROM", &config.SecretsFrom)
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	var errs []error

	switch c.Session.Backend {
	case BackendMemory, BackendBolt, BackendDynamoDB:
	default:
		errs = append(errs, fmt.Errorf("session.backend must be memory, bolt or dynamodb, got %q", c.Session.Backend))
	}

	switch c.SecretsFrom {
	case "env", "ssm":
	default:
		errs = append(errs, fmt.Errorf("secrets_from must be env or ssm, got %q", c.SecretsFrom))
	}

	durations := map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"session.ttl":             c.Session.TTL,
		"oauth.state_ttl":         c.OAuth.StateTTL,
		"oauth.http_timeout":      c.OAuth.HTTPTimeout,
	}
	for key, value := range durations {
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, value))
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Session.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("session.max_entries must be positive"))
	}
	if !strings.HasPrefix(c.OAuth.LandingPath, "/") {
		errs = append(errs, fmt.Errorf("oauth.landing_path must be an absolute path"))
	}

	return errors.Join(errs...)
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// SessionTTL returns the parsed session lifetime
func (c *SessionConfig) SessionTTL() time.Duration { return mustDuration(c.TTL, 12*time.Hour) }

// StateLifetime returns how long a pending authorization request stays valid
func (c *OAuthConfig) StateLifetime() time.Duration { return mustDuration(c.StateTTL, 5*time.Minute) }

// Timeout returns the timeout for calls to the identity provider
func (c *OAuthConfig) Timeout() time.Duration { return mustDuration(c.HTTPTimeout, 10*time.Second) }

// ReadTimeoutDuration returns the parsed read timeout
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout, 15*time.Second)
}

// WriteTimeoutDuration returns the parsed write timeout
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout, 15*time.Second)
}

// ShutdownTimeoutDuration returns the parsed graceful shutdown budget
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout, 10*time.Second)
}
