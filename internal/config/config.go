package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Env        string `mapstructure:"app_env"`
	ServerPort string `mapstructure:"port"`
	Debug      bool   `mapstructure:"debug"`

	// SQL storage (sqlite, postgres or mysql)
	DatabaseType string `mapstructure:"database_type"`
	DatabasePath string `mapstructure:"db_path"`
	DatabaseURL  string `mapstructure:"database_url"`

	// Server side of /api/data: "file" keeps a CSV file, "sql" keeps it in the database
	DataBackend  string `mapstructure:"data_backend"`
	DataFilePath string `mapstructure:"data_file"`
	DataSecret   string `mapstructure:"data_secret"`

	// Player progress: "sql" or "file" local store, mirrored to MirrorURL
	ProgressStore  string        `mapstructure:"progress_store"`
	ProgressDir    string        `mapstructure:"progress_dir"`
	MirrorURL      string        `mapstructure:"mirror_url"`
	MirrorDisabled bool          `mapstructure:"mirror_disabled"`
	MirrorTimeout  time.Duration `mapstructure:"mirror_timeout"`

	UploadMaxSize int64 `mapstructure:"upload_max_size"`

	// Requests per minute per client on POST /api/data. Forwarding headers
	// are only used for the client address when TrustProxy is set.
	RateLimit  int  `mapstructure:"rate_limit"`
	TrustProxy bool `mapstructure:"trust_proxy"`

	// Completion notifications through Amazon SES
	AWSRegion    string `mapstructure:"aws_region"`
	SESFromEmail string `mapstructure:"ses_from_email"`
	SESFromName  string `mapstructure:"ses_from_name"`
	NotifyEmail  string `mapstructure:"notify_email"`
}

var keys = []string{
	"app_env", "port", "debug",
	"database_type", "db_path", "database_url",
	"data_backend", "data_file", "data_secret",
	"progress_store", "progress_dir", "mirror_url", "mirror_disabled", "mirror_timeout",
	"upload_max_size", "rate_limit", "trust_proxy",
	"aws_region", "ses_from_email", "ses_from_name", "notify_email",
}

// Load reads configuration from .env, an optional config/config.yaml and environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("app_env", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)
	v.SetDefault("database_type", "sqlite")
	v.SetDefault("db_path", "./harjoitus.db")
	v.SetDefault("database_url", "")
	v.SetDefault("data_backend", "file")
	v.SetDefault("data_file", "./data/progress.csv")
	v.SetDefault("data_secret", "")
	v.SetDefault("progress_store", "sql")
	v.SetDefault("progress_dir", "./data/local")
	v.SetDefault("mirror_url", "")
	v.SetDefault("mirror_disabled", false)
	v.SetDefault("mirror_timeout", "5s")
	v.SetDefault("upload_max_size", 1024*1024) // 1MB
	v.SetDefault("rate_limit", 60)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("aws_region", "eu-north-1")
	v.SetDefault("ses_from_email", "")
	v.SetDefault("ses_from_name", "Harjoitus")
	v.SetDefault("notify_email", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize validates enumerated values and fills derived defaults
func (c *Config) normalize() error {
	c.DatabaseType = strings.ToLower(strings.TrimSpace(c.DatabaseType))
	c.DataBackend = strings.ToLower(strings.TrimSpace(c.DataBackend))
	c.ProgressStore = strings.ToLower(strings.TrimSpace(c.ProgressStore))

	switch c.DataBackend {
	case "file", "sql":
	default:
		return fmt.Errorf("unsupported data backend: %s", c.DataBackend)
	}

	switch c.ProgressStore {
	case "file", "sql":
	default:
		return fmt.Errorf("unsupported progress store: %s", c.ProgressStore)
	}

	if (c.DatabaseType == "postgres" || c.DatabaseType == "postgresql" || c.DatabaseType == "mysql") && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for database type %s", c.DatabaseType)
	}

	// Mirror to our own /api/data unless told otherwise
	if c.MirrorURL == "" && !c.MirrorDisabled {
		c.MirrorURL = "http://localhost:" + c.ServerPort
	}
	if c.MirrorDisabled {
		c.MirrorURL = ""
	}
	c.MirrorURL = strings.TrimSuffix(c.MirrorURL, "/")

	if c.RateLimit <= 0 {
		c.RateLimit = 60
	}

	if c.MirrorTimeout <= 0 {
		c.MirrorTimeout = 5 * time.Second
	}

	return nil
}

// NotificationsEnabled reports whether completion emails can be sent
func (c *Config) NotificationsEnabled() bool {
	return c.SESFromEmail != "" && c.NotifyEmail != ""
}
