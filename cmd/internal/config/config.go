package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	envVarsPrefix = "/upra/classaction/prod/"
	prodRegion    = "eu-west-3"
)

type Config struct {
	Env      string `env:"GO_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":7070"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"database.db"`

	DefaultCompany     string   `env:"DEFAULT_COMPANY" envDefault:"atos"`
	SupportedCompanies []string `env:"SUPPORTED_COMPANIES" envDefault:"atos,urpea" envSeparator:","`
	DuplicateCheck     bool     `env:"DUPLICATE_CHECK" envDefault:"true"`

	EmailNotifications bool   `env:"EMAIL_NOTIFICATIONS" envDefault:"true"`
	AdminNotifications bool   `env:"ADMIN_NOTIFICATIONS" envDefault:"false"`
	AdminEmail         string `env:"ADMIN_EMAIL"`
	EmailFromName      string `env:"EMAIL_FROM_NAME" envDefault:"UPRA"`
	EmailFromAddress   string `env:"EMAIL_FROM_ADDRESS" envDefault:"no-reply@upra.fr"`
	EmailReplyTo       string `env:"EMAIL_REPLY_TO" envDefault:"info@upra.fr"`

	AWSRegion           string `env:"AWS_REGION" envDefault:"eu-west-3"`
	SESEnabled          bool   `env:"SES_ENABLED" envDefault:"false"`
	ExportArchiveBucket string `env:"EXPORT_ARCHIVE_BUCKET"`

	DataRetentionDays int    `env:"DATA_RETENTION_DAYS" envDefault:"0"`
	RetentionSchedule string `env:"RETENTION_SCHEDULE" envDefault:"@daily"`

	GeoIPURL     string        `env:"GEOIP_URL"`
	GeoIPTimeout time.Duration `env:"GEOIP_TIMEOUT" envDefault:"2s"`

	AdminJWKSURL string `env:"ADMIN_JWKS_URL"`
	AdminGroup   string `env:"ADMIN_GROUP"`
	AdminToken   string `env:"ADMIN_TOKEN"`

	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"25"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"200"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the process environment into a Config. Call LoadEnvironment
// first to populate it from .env or SSM.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	normalize(&cfg)
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) {
	cfg.DefaultCompany = strings.ToLower(strings.TrimSpace(cfg.DefaultCompany))
	companies := make([]string, 0, len(cfg.SupportedCompanies))
	for _, c := range cfg.SupportedCompanies {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			companies = append(companies, c)
		}
	}
	cfg.SupportedCompanies = companies
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
}

func (c *Config) validate() error {
	var errs []error
	if c.DefaultCompany == "" {
		errs = append(errs, errors.New("DEFAULT_COMPANY cannot be empty"))
	}
	if c.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("DEFAULT_PAGE_SIZE must be positive"))
	}
	if c.MaxPageSize < c.DefaultPageSize {
		errs = append(errs, errors.New("MAX_PAGE_SIZE must be >= DEFAULT_PAGE_SIZE"))
	}
	if c.DataRetentionDays < 0 {
		errs = append(errs, errors.New("DATA_RETENTION_DAYS cannot be negative"))
	}
	if c.AdminNotifications && c.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_NOTIFICATIONS requires ADMIN_EMAIL"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// GommonLevel maps LOG_LEVEL to the gommon level.
func (c *Config) GommonLevel() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// LoadEnvironment exports variables from AWS SSM Parameter Store when
// GO_ENV=production, from the optional .env file otherwise.
func LoadEnvironment(ctx context.Context) error {
	if os.Getenv("GO_ENV") == "production" {
		return loadProdEnv(ctx)
	}

	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no .env file found, using process environment")
		return nil
	}
	return err
}

func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(prodRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	prefixLength := len(envVarsPrefix)
	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := (*param.Name)[prefixLength:]
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable: %w", err)
			}
			loaded++
		}
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}
