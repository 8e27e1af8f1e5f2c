package config

import (
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/caarlos0/env/v11"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

type (
	Config struct {
		App        App
		HTTP       HTTP
		Log        Log
		Upload     Upload
		CORS       CORS
		RateLimit  RateLimit
		Storage    Storage
		Cloudinary Cloudinary
		S3         S3
		Swagger    Swagger
	}

	App struct {
		Env string `env:"APP_ENV" envDefault:"development"`
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT" envDefault:"8080"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Upload struct {
		MaxFileSize    int64    `env:"MAX_FILE_SIZE" envDefault:"10485760"`
		AllowedFormats []string `env:"ALLOWED_FORMATS" envDefault:"jpg,jpeg,png,gif,webp,svg"`
	}

	CORS struct {
		AllowedOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	}

	RateLimit struct {
		Max    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
		Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	}

	Storage struct {
		Provider string `env:"STORAGE_PROVIDER" envDefault:"cloudinary"`
	}

	Cloudinary struct {
		CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
		APIKey    string `env:"CLOUDINARY_API_KEY"`
		APISecret string `env:"CLOUDINARY_API_SECRET"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		Bucket         string        `env:"S3_BUCKET"`
		PublicURL      string        `env:"S3_PUBLIC_URL"`
		StorageLimit   int64         `env:"S3_STORAGE_LIMIT" envDefault:"1073741824"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validateProvider(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateProvider refuses to start without credentials for the selected
// storage provider.
func (c *Config) validateProvider() error {
	switch c.Storage.Provider {
	case ProviderCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return errs.Configuration("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for provider %q", c.Storage.Provider)
		}
	case ProviderS3:
		if c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" || c.S3.Bucket == "" {
			return errs.Configuration("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required for provider %q", c.Storage.Provider)
		}
	default:
		return errs.Configuration("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
