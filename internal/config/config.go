package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ErrMissingJWTSecret is returned when a production process starts without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	Env              string
	Port             string
	LogLevel         string
	DatabaseURL      string
	DBSchema         string
	JWTSecret        string
	TokenTTL         time.Duration
	DefaultCompanyID int64
	AppURL           string
	SiteURL          string
	DadataAPIKey     string

	SMTP  SMTPConfig
	Redis RedisConfig
	Minio MinioConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Configured reports whether outbound mail can be sent at all.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

func (m MinioConfig) Enabled() bool {
	return m.Endpoint != "" && m.AccessKey != "" && m.SecretKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads configuration from the environment. In dev a local .env file is
// loaded first.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			zap.L().Warn("No .env file loaded", zap.Error(err))
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAIN_DB_SCHEMA", "public")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("DEFAULT_COMPANY_ID", 1)
	v.SetDefault("APP_URL", "https://i-hunt.ru")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("MINIO_BUCKET", "og-images")

	cfg := &Config{
		Env:              v.GetString("APP_ENV"),
		Port:             v.GetString("PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBSchema:         v.GetString("MAIN_DB_SCHEMA"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		DefaultCompanyID: v.GetInt64("DEFAULT_COMPANY_ID"),
		AppURL:           strings.TrimRight(v.GetString("APP_URL"), "/"),
		SiteURL:          strings.TrimRight(v.GetString("SITE_URL"), "/"),
		DadataAPIKey:     v.GetString("DADATA_API_KEY"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = cfg.AppURL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}

	cfg.SMTP = SMTPConfig{
		Host:     firstNonEmpty(v.GetString("SMTP_HOST"), v.GetString("EMAIL_SMTP_HOST")),
		User:     firstNonEmpty(v.GetString("SMTP_USER"), v.GetString("EMAIL_FROM")),
		Password: firstNonEmpty(v.GetString("SMTP_PASSWORD"), v.GetString("EMAIL_PASSWORD")),
		Port:     v.GetInt("SMTP_PORT"),
	}
	if !v.IsSet("SMTP_HOST") && v.IsSet("EMAIL_SMTP_PORT") {
		cfg.SMTP.Port = v.GetInt("EMAIL_SMTP_PORT")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = random.String(48)
		zap.L().Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
