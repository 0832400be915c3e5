// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" env-default:"8080"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOriginsRaw is the comma-separated CORS_ORIGINS value; read CORSOrigins instead.
	CORSOriginsRaw string `env:"CORS_ORIGINS" env-default:"http://localhost:5173"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string

	// DatabaseURL is the Postgres connection string of the remote store.
	// Empty means the remote store is not configured and every operation
	// uses the local store.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrateOnStart applies pending goose migrations when the remote store connects.
	MigrateOnStart bool `env:"MIGRATE_ON_START" env-default:"true"`

	// LocalStorePath is the SQLite file backing the local fallback store.
	LocalStorePath string `env:"LOCAL_STORE_PATH" env-default:"data/local.db"`

	// MediaDir receives photos when the remote media store is unavailable.
	MediaDir string `env:"MEDIA_DIR" env-default:"data/media"`

	S3 S3Config

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	// MaxUploadBytes caps multipart uploads (photos, import files).
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`

	Display DisplayConfig
}

// S3Config configures the remote media store. An empty Bucket leaves the
// media store unconfigured.
type S3Config struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" env-default:"us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	PathStyle     bool   `env:"S3_PATH_STYLE" env-default:"false"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Static credentials; when empty the default AWS credential chain applies.
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

// DisplayConfig controls how registration timestamps are rendered into the
// display date and time strings.
type DisplayConfig struct {
	Timezone   string `env:"DISPLAY_TIMEZONE" env-default:"Local"`
	DateLayout string `env:"DISPLAY_DATE_LAYOUT" env-default:"02.01.2006"`
	TimeLayout string `env:"DISPLAY_TIME_LAYOUT" env-default:"15:04"`
}

// Location resolves Timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	return time.LoadLocation(d.Timezone)
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present;
// variables already set in the process environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.CORSOrigins = splitCSV(cfg.CORSOriginsRaw)

	var invalid []string
	if cfg.MaxBodyBytes <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	if cfg.MaxUploadBytes <= 0 {
		invalid = append(invalid, "MAX_UPLOAD_BYTES")
	}
	if _, err := cfg.Display.Location(); err != nil {
		invalid = append(invalid, "DISPLAY_TIMEZONE")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RemoteConfigured reports whether a remote database has been configured.
func (c Config) RemoteConfigured() bool {
	return c.DatabaseURL != ""
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
