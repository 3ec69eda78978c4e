// Package config holds the process configuration. Values come from an
// optional YAML file, then environment variables, then command-line flags
// applied by main.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is injected into every component at startup.
type Config struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`

	DBPath   string `yaml:"db_path"`
	HTTPAddr string `yaml:"http_addr"`

	// AMQPURL enables order event publishing when set.
	AMQPURL       string `yaml:"amqp_url"`
	OrderExchange string `yaml:"order_exchange"`

	// SessionTTL expires abandoned forms. Zero keeps them forever.
	SessionTTL time.Duration `yaml:"session_ttl"`
	TokenTTL   time.Duration `yaml:"token_ttl"`

	// Currency is stored on ledger entries; DisplayCurrency is shown to users.
	Currency        string `yaml:"currency"`
	DisplayCurrency string `yaml:"display_currency"`

	PollTimeout int `yaml:"poll_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		DBPath:          "center.db",
		HTTPAddr:        ":8080",
		OrderExchange:   "orders_exchange",
		TokenTTL:        24 * time.Hour,
		Currency:        "XAF",
		DisplayCurrency: "CFA",
		PollTimeout:     30,
	}
}

// Load reads the YAML file at path, if any, and applies environment
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.BotToken = getEnvFromFile("BOT_TOKEN_FILE", "BOT_TOKEN", c.BotToken)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.AMQPURL = getEnvFromFile("AMQP_URL_FILE", "AMQP_URL", c.AMQPURL)
	c.OrderExchange = getEnv("ORDER_EXCHANGE", c.OrderExchange)
	c.Currency = getEnv("CURRENCY", c.Currency)
	c.DisplayCurrency = getEnv("DISPLAY_CURRENCY", c.DisplayCurrency)

	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("parsing ADMIN_CHAT_ID: %w", err)
		}
		c.AdminChatID = id
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing TOKEN_TTL: %w", err)
		}
		c.TokenTTL = d
	}
	return nil
}

// Validate reports settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("bot token is required (BOT_TOKEN)"))
	}
	if c.AdminChatID == 0 {
		errs = append(errs, errors.New("admin chat id is required (ADMIN_CHAT_ID)"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session ttl must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFromFile prefers a secret mounted as a file over the plain variable.
func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
