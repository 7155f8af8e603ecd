package app

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/decor"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/notifier"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/repository"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/service"
)

type Config struct {
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`

	DatabaseDriver string `validate:"oneof=sqlite3 postgres"`
	DatabaseURI    string `validate:"required"`

	TelegramBotToken string
	TelegramChatID   string        `validate:"required_with=TelegramBotToken"`
	TelegramAPIURL   string        `validate:"required,url"`
	NotifyTimeout    time.Duration `validate:"gt=0"`
	NotifyAsync      bool

	CatFactURL    string        `validate:"required,url"`
	CatPictureURL string        `validate:"required,url"`
	DecorTimeout  time.Duration `validate:"gt=0"`

	CORSAllowedOrigins []string `validate:"min=1"`

	LogLevel    string `validate:"oneof=debug info warn error"`
	LogEncoding string `validate:"oneof=console json"`
	EnvFile     string
}

// NewConfigFromFlags parses args, then lets the environment and the dotenv
// file override whatever the flags set.
func NewConfigFromFlags(args []string) (*Config, error) {
	cfg := &Config{}
	var origins string

	flags := flag.NewFlagSet("breakfast", flag.ContinueOnError)
	flags.StringVar(&cfg.Host, "host", "0.0.0.0", "Bind address (env: HOST_IP)")
	flags.IntVar(&cfg.Port, "port", 5000, "Bind port (env: HOST_PORT)")
	flags.StringVar(&cfg.DatabaseDriver, "db-driver", repository.DriverSQLite, "Database driver, sqlite3|postgres (env: DATABASE_DRIVER)")
	flags.StringVar(&cfg.DatabaseURI, "d", "orders.db", "Database URI (env: DATABASE_URI)")
	flags.StringVar(&cfg.TelegramBotToken, "telegram-token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	flags.StringVar(&cfg.TelegramChatID, "telegram-chat", "", "Telegram chat id (env: TELEGRAM_CHAT_ID)")
	flags.StringVar(&cfg.TelegramAPIURL, "telegram-api", notifier.DefaultTelegramAPIURL, "Telegram Bot API base URL (env: TELEGRAM_API_URL)")
	flags.DurationVar(&cfg.NotifyTimeout, "notify-timeout", service.DefaultNotifyTimeout, "Timeout of one notification attempt (env: NOTIFY_TIMEOUT)")
	flags.BoolVar(&cfg.NotifyAsync, "notify-async", true, "Send notifications in the background (env: NOTIFY_ASYNC)")
	flags.StringVar(&cfg.CatFactURL, "cat-fact-url", decor.DefaultCatFactURL, "Cat fact API (env: CAT_FACT_URL)")
	flags.StringVar(&cfg.CatPictureURL, "cat-picture-url", decor.DefaultCatPictureURL, "Cat picture API (env: CAT_PICTURE_URL)")
	flags.DurationVar(&cfg.DecorTimeout, "decor-timeout", decor.DefaultTimeout, "Timeout for cat APIs (env: DECOR_TIMEOUT)")
	flags.StringVar(&origins, "cors-origins", "*", "Comma separated CORS origins for /orders (env: CORS_ALLOWED_ORIGINS)")
	flags.StringVar(&cfg.LogLevel, "l", "info", "Log level (debug|info|warn|error) (env: LOG_LEVEL)")
	flags.StringVar(&cfg.LogEncoding, "log-encoding", "console", "Log encoding (console|json) (env: LOG_ENCODING)")
	flags.StringVar(&cfg.EnvFile, "env-file", ".env", "Optional dotenv file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvVars(&origins); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = splitList(origins)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvVars(origins *string) error {
	v := viper.New()
	v.AutomaticEnv()

	if c.EnvFile != "" {
		v.SetConfigFile(c.EnvFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", c.EnvFile, err)
		}
	}

	stringVars := map[string]*string{
		"host_ip":              &c.Host,
		"database_driver":      &c.DatabaseDriver,
		"database_uri":         &c.DatabaseURI,
		"telegram_bot_token":   &c.TelegramBotToken,
		"telegram_chat_id":     &c.TelegramChatID,
		"telegram_api_url":     &c.TelegramAPIURL,
		"cat_fact_url":         &c.CatFactURL,
		"cat_picture_url":      &c.CatPictureURL,
		"cors_allowed_origins": origins,
		"log_level":            &c.LogLevel,
		"log_encoding":         &c.LogEncoding,
	}
	for key, dst := range stringVars {
		if val := v.GetString(key); val != "" {
			*dst = val
		}
	}

	if val := v.GetString("host_port"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid HOST_PORT %q: %w", val, err)
		}
		c.Port = port
	}

	durationVars := map[string]*time.Duration{
		"notify_timeout": &c.NotifyTimeout,
		"decor_timeout":  &c.DecorTimeout,
	}
	for key, dst := range durationVars {
		if val := v.GetString(key); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", strings.ToUpper(key), val, err)
			}
			*dst = d
		}
	}

	if val := v.GetString("notify_async"); val != "" {
		async, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid NOTIFY_ASYNC %q: %w", val, err)
		}
		c.NotifyAsync = async
	}

	return nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func (c *Config) MaskDBPassword() string {
	u, err := url.Parse(c.DatabaseURI)
	if err != nil {
		return c.DatabaseURI
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
