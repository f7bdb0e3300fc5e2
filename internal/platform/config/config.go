package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AWS      AWSConfig
	Summary  SummaryConfig
	Workflow WorkflowConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret    string
	CookieName   string
	CookieMaxAge time.Duration
}

// AWSConfig drives the SES/SNS notifier. An empty region disables it.
type AWSConfig struct {
	Region        string
	SenderEmail   string
	EventTopicARN string
}

type SummaryConfig struct {
	RefreshInterval time.Duration
	Concurrency     int
	LockTTL         time.Duration
	LockWait        time.Duration
}

type WorkflowConfig struct {
	// RejectedRecoverable lets a rejected vendor be approved again.
	RejectedRecoverable bool
}

type LogConfig struct {
	Level  string
	Format string
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "15s")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ADMIN_COOKIE_NAME", "admin_token")
	v.SetDefault("ADMIN_COOKIE_MAX_AGE", "8h")
	v.SetDefault("SUMMARY_REFRESH_INTERVAL", "0s")
	v.SetDefault("SUMMARY_CONCURRENCY", 4)
	v.SetDefault("SUMMARY_LOCK_TTL", "30s")
	v.SetDefault("SUMMARY_LOCK_WAIT", "5s")
	v.SetDefault("REJECTED_RECOVERABLE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	return v
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		Server: ServerConfig{
			Port:         v.GetString("APP_PORT"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			CookieName:   v.GetString("ADMIN_COOKIE_NAME"),
			CookieMaxAge: v.GetDuration("ADMIN_COOKIE_MAX_AGE"),
		},
		AWS: AWSConfig{
			Region:        v.GetString("AWS_REGION"),
			SenderEmail:   v.GetString("NOTIFY_SENDER_EMAIL"),
			EventTopicARN: v.GetString("NOTIFY_EVENT_TOPIC_ARN"),
		},
		Summary: SummaryConfig{
			RefreshInterval: v.GetDuration("SUMMARY_REFRESH_INTERVAL"),
			Concurrency:     v.GetInt("SUMMARY_CONCURRENCY"),
			LockTTL:         v.GetDuration("SUMMARY_LOCK_TTL"),
			LockWait:        v.GetDuration("SUMMARY_LOCK_WAIT"),
		},
		Workflow: WorkflowConfig{
			RejectedRecoverable: v.GetBool("REJECTED_RECOVERABLE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = "dev-secret-key-change-in-production"
	}
	if c.Summary.Concurrency < 1 {
		c.Summary.Concurrency = 1
	}
	if c.Summary.RefreshInterval < 0 {
		return fmt.Errorf("SUMMARY_REFRESH_INTERVAL must not be negative")
	}
	return nil
}
