// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package config loads service configuration from built-in defaults, an
// optional YAML file, LIBRARIUM_* environment variables and command-line
// flags, in that order of precedence (later wins).
package config

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/librarium/librarium/internal/auth"
	"github.com/librarium/librarium/internal/notify"
)

// EnvPrefix is stripped from environment variables. A double underscore
// separates nesting levels: LIBRARIUM_AUTH__JWT_SECRET sets auth.jwt_secret.
const EnvPrefix = "LIBRARIUM_"

// Tracker backends.
const (
	TrackerPostgres = "postgres"
	TrackerRedis    = "redis"
)

// Config is the complete service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Reset    ResetConfig    `koanf:"reset"`
	Redis    RedisConfig    `koanf:"redis"`
	Notify   NotifyConfig   `koanf:"notify"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig configures the metrics and health listener. An empty
// address disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	MaxConns        int32  `koanf:"max_conns"`
	ConnectAttempts uint64 `koanf:"connect_attempts"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
}

// AuthConfig configures credentials and sessions.
type AuthConfig struct {
	JWTSecret           string        `koanf:"jwt_secret"`
	SessionTTL          time.Duration `koanf:"session_ttl"`
	Issuer              string        `koanf:"issuer"`
	CookieName          string        `koanf:"cookie_name"`
	CookieSecure        bool          `koanf:"cookie_secure"`
	BcryptCost          int           `koanf:"bcrypt_cost"`
	AllowedEmailDomains []string      `koanf:"allowed_email_domains"`
}

// ResetConfig configures the password reset flow.
type ResetConfig struct {
	FrontendURL string `koanf:"frontend_url"`
	Tracker     string `koanf:"tracker"`
}

// RedisConfig is used when reset.tracker is redis.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// NotifyConfig configures reset link delivery.
type NotifyConfig struct {
	Provider string        `koanf:"provider"`
	From     string        `koanf:"from"`
	SMTP     SMTPConfig    `koanf:"smtp"`
	Mailgun  MailgunConfig `koanf:"mailgun"`
}

// SMTPConfig configures the SMTP notifier.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// MailgunConfig configures the Mailgun notifier.
type MailgunConfig struct {
	Domain  string `koanf:"domain"`
	APIKey  string `koanf:"api_key"`
	APIBase string `koanf:"api_base"`
}

// NotifierConfig converts the notify section for notify.New.
func (c NotifyConfig) NotifierConfig() notify.Config {
	return notify.Config{
		Provider: c.Provider,
		From:     c.From,
		SMTP:     notify.SMTPConfig(c.SMTP),
		Mailgun:  notify.MailgunConfig(c.Mailgun),
	}
}

// Defaults returns the built-in configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"http.addr":                  ":8080",
		"http.read_timeout":          "10s",
		"http.write_timeout":         "15s",
		"http.shutdown_timeout":      "10s",
		"metrics.addr":               "127.0.0.1:9100",
		"log.format":                 "json",
		"log.level":                  "info",
		"database.url":               "",
		"database.max_conns":         10,
		"database.connect_attempts":  5,
		"database.auto_migrate":      false,
		"auth.jwt_secret":            "",
		"auth.session_ttl":           auth.DefaultSessionTTL.String(),
		"auth.issuer":                auth.DefaultSessionIssuer,
		"auth.cookie_name":           "access-token",
		"auth.cookie_secure":         true,
		"auth.bcrypt_cost":           auth.DefaultBcryptCost,
		"auth.allowed_email_domains": []string{},
		"reset.frontend_url":         "http://localhost:3000",
		"reset.tracker":              TrackerPostgres,
		"redis.addr":                 "localhost:6379",
		"redis.password":             "",
		"redis.db":                   0,
		"notify.provider":            notify.ProviderLog,
		"notify.from":                "Librarium <noreply@librarium.local>",
		"notify.smtp.host":           "",
		"notify.smtp.port":           587,
		"notify.smtp.username":       "",
		"notify.smtp.password":       "",
		"notify.mailgun.domain":      "",
		"notify.mailgun.api_key":     "",
		"notify.mailgun.api_base":    "",
	}
}

// listKeys hold comma separated values when set from the environment.
var listKeys = []string{"auth.allowed_email_domains"}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"database-url": "database.url",
	"auto-migrate": "database.auto_migrate",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", "", "API listen address")
	fs.String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", "", "log format (json or text)")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.Bool("auto-migrate", false, "apply pending migrations on startup")
}

// Load builds a Config. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", path).
				Wrap(err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if slices.Contains(listKeys, key) {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return invalid("http.addr", "is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "must be 'json' or 'text'")
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if len(c.Auth.JWTSecret) < auth.MinSessionSecretBytes {
		return invalid("auth.jwt_secret", "must be at least 32 bytes")
	}
	if c.Auth.SessionTTL <= 0 {
		return invalid("auth.session_ttl", "must be positive")
	}
	if c.Auth.CookieName == "" {
		return invalid("auth.cookie_name", "is required")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return invalid("auth.bcrypt_cost", "must be between 4 and 31")
	}
	if u, err := url.Parse(c.Reset.FrontendURL); err != nil || !u.IsAbs() || u.Host == "" {
		return invalid("reset.frontend_url", "must be an absolute URL")
	}
	switch c.Reset.Tracker {
	case TrackerPostgres:
	case TrackerRedis:
		if c.Redis.Addr == "" {
			return invalid("redis.addr", "is required when reset.tracker is redis")
		}
	default:
		return invalid("reset.tracker", "must be 'postgres' or 'redis'")
	}
	switch strings.ToLower(c.Notify.Provider) {
	case notify.ProviderLog, notify.ProviderSMTP, notify.ProviderMailgun:
	default:
		return invalid("notify.provider", "must be 'log', 'smtp' or 'mailgun'")
	}
	return nil
}

// ValidateDatabase checks only what database maintenance commands need.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return invalid("database.url", "is required")
	}
	return nil
}

func invalid(key, msg string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf("%s %s", key, msg)
}
