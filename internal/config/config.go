package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ahmadzendi/monitor-emas7/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Gold     GoldConfig     `mapstructure:"gold"`
	UsdIdr   UsdIdrConfig   `mapstructure:"usdidr"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig covers the live-view listener.
type ServerConfig struct {
	Addr      string        `mapstructure:"addr"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
}

// GoldConfig governs the treasury gold stream.
type GoldConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	StartupDelay   time.Duration `mapstructure:"startup_delay"`
	HistorySize    int           `mapstructure:"history_size"`
	LedgerCap      int           `mapstructure:"ledger_cap"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// UsdIdrConfig governs the USD/IDR quote stream.
type UsdIdrConfig struct {
	QuoteURL       string        `mapstructure:"quote_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	StartupDelay   time.Duration `mapstructure:"startup_delay"`
	HistorySize    int           `mapstructure:"history_size"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// TelegramConfig covers the admin command channel.
type TelegramConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BotToken    string        `mapstructure:"bot_token"`
	APIBase     string        `mapstructure:"api_base"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// ExportConfig sets history export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MONITOREMAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "monitoremas")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.heartbeat", "30s")

	v.SetDefault("gold.base_url", "https://api.treasury.id/api/v1")
	v.SetDefault("gold.request_timeout", "10s")
	v.SetDefault("gold.poll_interval", "100ms")
	v.SetDefault("gold.retry_interval", "1s")
	v.SetDefault("gold.startup_delay", "1s")
	v.SetDefault("gold.history_size", 1441)
	v.SetDefault("gold.ledger_cap", 5000)

	v.SetDefault("usdidr.quote_url", "https://www.google.com/finance/quote/USD-IDR")
	v.SetDefault("usdidr.request_timeout", "10s")
	v.SetDefault("usdidr.poll_interval", "1s")
	v.SetDefault("usdidr.retry_interval", "2s")
	v.SetDefault("usdidr.startup_delay", "2s")
	v.SetDefault("usdidr.history_size", 11)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("telegram.poll_timeout", "25s")

	v.SetDefault("export.max_data_points", 1441)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Server.Heartbeat <= 0 {
		return fmt.Errorf("server.heartbeat must be greater than zero")
	}
	if c.Gold.PollInterval <= 0 || c.Gold.RetryInterval <= 0 {
		return fmt.Errorf("gold poll/retry intervals must be greater than zero")
	}
	if c.Gold.HistorySize <= 0 {
		return fmt.Errorf("gold.history_size must be greater than zero")
	}
	if c.Gold.LedgerCap <= 0 {
		return fmt.Errorf("gold.ledger_cap must be greater than zero")
	}
	if c.UsdIdr.PollInterval <= 0 || c.UsdIdr.RetryInterval <= 0 {
		return fmt.Errorf("usdidr poll/retry intervals must be greater than zero")
	}
	if c.UsdIdr.HistorySize <= 0 {
		return fmt.Errorf("usdidr.history_size must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token must be set when telegram is enabled")
	}
	return nil
}
