package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ModePolling receives updates through getUpdates long polling.
	ModePolling = "polling"
	// ModeWebhook receives updates through the HTTP webhook endpoint.
	ModeWebhook = "webhook"
)

var (
	// ErrMissingDatabaseURL is returned when no connection string is configured.
	ErrMissingDatabaseURL = errors.New("database url must be provided")
	// ErrMissingBotToken is returned when no bot credential is configured.
	ErrMissingBotToken = errors.New("telegram token must be provided")
)

// Config holds runtime configuration values for the bot service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	LogLevel    string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	NATSSubject string
	Telegram    TelegramConfig
}

// TelegramConfig configures the messaging gateway.
type TelegramConfig struct {
	Token         string
	APIURL        string
	Mode          string
	PollTimeout   time.Duration
	Workers       int
	DropPending   bool
	WebhookURL    string
	WebhookSecret string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ROOMBOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Room Finder Bot")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("nats.subject", "roombot.searches")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.mode", ModePolling)
	v.SetDefault("telegram.poll_timeout", "30s")
	v.SetDefault("telegram.workers", 4)
	v.SetDefault("telegram.drop_pending", true)

	timeoutString := v.GetString("telegram.poll_timeout")
	if timeoutString == "" {
		timeoutString = "30s"
	}

	pollTimeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid telegram poll timeout: %w", err)
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		LogLevel:    strings.ToLower(v.GetString("log.level")),
		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		NATSURL:     v.GetString("nats.url"),
		NATSSubject: v.GetString("nats.subject"),
		Telegram: TelegramConfig{
			Token:         v.GetString("telegram.token"),
			APIURL:        strings.TrimRight(v.GetString("telegram.api_url"), "/"),
			Mode:          strings.ToLower(v.GetString("telegram.mode")),
			PollTimeout:   pollTimeout,
			Workers:       v.GetInt("telegram.workers"),
			DropPending:   v.GetBool("telegram.drop_pending"),
			WebhookURL:    v.GetString("telegram.webhook_url"),
			WebhookSecret: v.GetString("telegram.webhook_secret"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	if cfg.Telegram.Token == "" {
		return Config{}, ErrMissingBotToken
	}

	switch cfg.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if cfg.Telegram.WebhookURL == "" {
			return Config{}, fmt.Errorf("telegram webhook url is required in %s mode", ModeWebhook)
		}
	default:
		return Config{}, fmt.Errorf("unsupported telegram mode %q", cfg.Telegram.Mode)
	}

	if cfg.Telegram.Workers <= 0 {
		cfg.Telegram.Workers = 4
	}

	if cfg.Telegram.PollTimeout < time.Second {
		cfg.Telegram.PollTimeout = 30 * time.Second
	}

	return cfg, nil
}
