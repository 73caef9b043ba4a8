package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderSMTP    = "smtp"
	ProviderMailgun = "mailgun"
	ProviderLog     = "log"
)

// Config holds the job configuration. It is built once in main and passed to constructors.
type Config struct {
	DBDriver    string `mapstructure:"DB_DRIVER" validate:"required,oneof=postgres sqlite"`
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`

	FeedURLs    []string      `mapstructure:"FOREX_URLS" validate:"required,min=1,dive,url"`
	FeedTimeout time.Duration `mapstructure:"FEED_TIMEOUT" validate:"gt=0"`

	// ERP target
	JDELibrary   string `mapstructure:"JDE_LIBRARY" validate:"required"`
	JDETable     string `mapstructure:"JDE_TABLE" validate:"required"`
	JDEProc      string `mapstructure:"JDE_PROC"`
	JDEUser      string `mapstructure:"JDE_USER" validate:"required,max=10"`
	JDEProgramID string `mapstructure:"JDE_PROGRAM_ID" validate:"required,max=10"`
	JDEJobName   string `mapstructure:"JDE_JOB_NAME" validate:"required,max=10"`

	// Notifications
	EmailProvider string `mapstructure:"EMAIL_PROVIDER" validate:"required,oneof=smtp mailgun log"`
	NotifyTo      string `mapstructure:"NOTIFY_TO" validate:"required_unless=EmailProvider log"`
	NotifyFrom    string `mapstructure:"NOTIFY_FROM" validate:"required_unless=EmailProvider log"`
	MailHost      string `mapstructure:"MAIL_HOST" validate:"required_if=EmailProvider smtp"`
	MailPort      int    `mapstructure:"MAIL_PORT" validate:"gt=0,lte=65535"`
	MailUser      string `mapstructure:"MAIL_USER"`
	MailPassword  string `mapstructure:"MAIL_PASSWORD"`
	MailTLS       bool   `mapstructure:"MAIL_TLS"`
	MailgunDomain string `mapstructure:"MAILGUN_DOMAIN" validate:"required_if=EmailProvider mailgun"`
	MailgunAPIKey string `mapstructure:"MAILGUN_API_KEY" validate:"required_if=EmailProvider mailgun"`

	LogLevel       string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	MigrateOnStart bool   `mapstructure:"MIGRATE_ON_START"`
	PushgatewayURL string `mapstructure:"PUSHGATEWAY_URL" validate:"omitempty,url"`
}

// LoadConfig loads configuration from a .env file if present, an optional config file named by
// FOREX_CONFIG_FILE, and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("FOREX_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		FeedURLs:       feedURLs(v),
		FeedTimeout:    v.GetDuration("FEED_TIMEOUT"),
		JDELibrary:     v.GetString("JDE_LIBRARY"),
		JDETable:       v.GetString("JDE_TABLE"),
		JDEProc:        v.GetString("JDE_PROC"),
		JDEUser:        v.GetString("JDE_USER"),
		JDEProgramID:   v.GetString("JDE_PROGRAM_ID"),
		JDEJobName:     v.GetString("JDE_JOB_NAME"),
		EmailProvider:  strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		NotifyTo:       v.GetString("NOTIFY_TO"),
		NotifyFrom:     v.GetString("NOTIFY_FROM"),
		MailHost:       v.GetString("MAIL_HOST"),
		MailPort:       v.GetInt("MAIL_PORT"),
		MailUser:       v.GetString("MAIL_USER"),
		MailPassword:   v.GetString("MAIL_PASSWORD"),
		MailTLS:        v.GetBool("MAIL_TLS"),
		MailgunDomain:  v.GetString("MAILGUN_DOMAIN"),
		MailgunAPIKey:  v.GetString("MAILGUN_API_KEY"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		PushgatewayURL: v.GetString("PUSHGATEWAY_URL"),
	}

	if cfg.DBDriver == DriverPostgres && cfg.JDEProc == "" {
		log.Println("Warning: JDE_PROC is empty. The downstream procedure will not be called.")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("FOREX_URLS", "")
	v.SetDefault("FEED_TIMEOUT", "30s")
	v.SetDefault("JDE_LIBRARY", "jdfdtai")
	v.SetDefault("JDE_TABLE", "f550015")
	v.SetDefault("JDE_PROC", "CALL jdfcst.p550015()")
	v.SetDefault("JDE_USER", "WINJOBUSER")
	v.SetDefault("JDE_PROGRAM_ID", "FOREXEXCH")
	v.SetDefault("JDE_JOB_NAME", "FOREXAPI")
	v.SetDefault("EMAIL_PROVIDER", ProviderSMTP)
	v.SetDefault("NOTIFY_TO", "")
	v.SetDefault("NOTIFY_FROM", "")
	v.SetDefault("MAIL_HOST", "")
	v.SetDefault("MAIL_PORT", 25)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_TLS", false)
	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("PUSHGATEWAY_URL", "")
	v.SetDefault("FOREX_CONFIG_FILE", "")
}

// feedURLs accepts either a list (config file) or a comma separated string (environment).
func feedURLs(v *viper.Viper) []string {
	var raw []string
	switch value := v.Get("FOREX_URLS").(type) {
	case string:
		raw = strings.Split(value, ",")
	default:
		raw = v.GetStringSlice("FOREX_URLS")
	}

	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
