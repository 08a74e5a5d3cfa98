package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const (
	EnvProduction = "production"
	EnvSandbox    = "sandbox"

	ProductionBaseURL = "https://api.safaricom.co.ke"
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
)

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Server     ServerConfig     `koanf:"server"`
	Database   *DatabaseConfig  `koanf:"database"`
	Mpesa      MpesaConfig      `koanf:"mpesa"`
	Polling    PollingConfig    `koanf:"polling"`
	Checkout   CheckoutConfig   `koanf:"checkout"`
	Reconciler ReconcilerConfig `koanf:"reconciler"`
	Logger     LoggerConfig     `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// MpesaConfig holds the Daraja credentials and transport settings.
type MpesaConfig struct {
	ConsumerKey     string        `koanf:"consumer_key" validate:"required"`
	ConsumerSecret  string        `koanf:"consumer_secret" validate:"required"`
	ShortCode       string        `koanf:"short_code" validate:"required,numeric"`
	Passkey         string        `koanf:"passkey" validate:"required"`
	Environment     string        `koanf:"environment" validate:"required,oneof=sandbox production"`
	BaseURL         string        `koanf:"base_url" validate:"omitempty,url"`
	TransactionType string        `koanf:"transaction_type" validate:"required,oneof=CustomerPayBillOnline CustomerBuyGoodsOnline"`
	ConnTimeout     time.Duration `koanf:"conn_timeout" validate:"required"`
}

// ResolveBaseURL returns the explicit base URL, or the provider host for the environment.
func (c MpesaConfig) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Environment == EnvProduction {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// PollingConfig bounds how long a checkout waits for the customer's approval.
type PollingConfig struct {
	InitialDelay         time.Duration `koanf:"initial_delay" validate:"required"`
	Interval             time.Duration `koanf:"interval" validate:"required"`
	MaxAttempts          int           `koanf:"max_attempts" validate:"required,min=1"`
	PendingCodes         []string      `koanf:"pending_codes" validate:"required,min=1"`
	MaxConsecutiveErrors int           `koanf:"max_consecutive_errors" validate:"min=0"`
	QueryTimeout         time.Duration `koanf:"query_timeout"`
}

// Ceiling is the longest a customer can be kept waiting for a result.
func (p PollingConfig) Ceiling() time.Duration {
	return p.InitialDelay + time.Duration(p.MaxAttempts-1)*p.Interval
}

// AttemptLifetime bounds how long a single attempt can stay open. A gateway
// call fetches a token and then posts, each capped by ConnTimeout.
func (c *Config) AttemptLifetime() time.Duration {
	call := 2 * c.Mpesa.ConnTimeout
	query := c.Polling.QueryTimeout
	if query <= 0 {
		query = call
	}
	return call + c.Polling.Ceiling() + time.Duration(c.Polling.MaxAttempts)*query
}

type CheckoutConfig struct {
	CallbackURL   string `koanf:"callback_url" validate:"required,url"`
	AccountPrefix string `koanf:"account_prefix" validate:"required"`
	ProductName   string `koanf:"product_name" validate:"required"`
}

// ReconcilerConfig controls the sweep that closes attempts left awaiting
// approval by a previous process.
type ReconcilerConfig struct {
	Interval   time.Duration `koanf:"interval" validate:"required"`
	StaleAfter time.Duration `koanf:"stale_after" validate:"required"`
	BatchSize  int           `koanf:"batch_size" validate:"required,min=1"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

// NewLogger builds the process logger from the configured level and format.
func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env":                    "development",
		"server.port":                    "8080",
		"server.read_timeout":            "10s",
		"server.write_timeout":           "75s",
		"server.idle_timeout":            "60s",
		"server.request_timeout":         "70s",
		"mpesa.environment":              EnvSandbox,
		"mpesa.transaction_type":         "CustomerPayBillOnline",
		"mpesa.conn_timeout":             "30s",
		"polling.initial_delay":          "5s",
		"polling.interval":               "10s",
		"polling.max_attempts":           30,
		"polling.pending_codes":          "1037",
		"polling.max_consecutive_errors": 0,
		"polling.query_timeout":          "15s",
		"checkout.account_prefix":        "LEARNBOT",
		"checkout.product_name":          "LearnBot",
		"reconciler.interval":            "1m",
		"reconciler.stale_after":         "15m",
		"reconciler.batch_size":          50,
		"logger.level":                   "info",
		"logger.format":                  "json",
	}
}

func LoadConfig() (*Config, error) {
	return load(env.Provider("CHECKOUT_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CHECKOUT_")),
			"__",
			".",
		)
	}))
}

func load(source koanf.Provider) (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	if err := k.Load(source, nil); err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	if lifetime := mainConfig.AttemptLifetime(); mainConfig.Reconciler.StaleAfter <= lifetime {
		err := fmt.Errorf("reconciler.stale_after (%s) must exceed the longest attempt lifetime (%s)", mainConfig.Reconciler.StaleAfter, lifetime)
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
