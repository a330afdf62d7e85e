// Package config provides configuration management for the stock monitor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// MonitorConfig holds price/news update configuration.
type MonitorConfig struct {
	RequestsPerMinute int           `mapstructure:"requests_per_minute"` // pacing budget for provider calls
	Timeout           time.Duration `mapstructure:"timeout"`             // per provider call
	HistoryDays       int           `mapstructure:"history_days"`
	NewsLimit         int           `mapstructure:"news_limit"`
	PriceInterval     time.Duration `mapstructure:"price_interval"`
	NewsInterval      time.Duration `mapstructure:"news_interval"`
	StocksCSV         string        `mapstructure:"stocks_csv"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	UseWhatsApp bool `mapstructure:"use_whatsapp"` // false sends plain SMS
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Credentials holds API credentials.
type Credentials struct {
	AlphaVantage AlphaVantageCredentials `mapstructure:"alphavantage"`
	NewsAPI      NewsAPICredentials      `mapstructure:"newsapi"`
	Unsplash     UnsplashCredentials     `mapstructure:"unsplash"`
	Twilio       TwilioCredentials       `mapstructure:"twilio"`
}

// AlphaVantageCredentials holds the Alpha Vantage API key.
type AlphaVantageCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// NewsAPICredentials holds the NewsAPI key.
type NewsAPICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// UnsplashCredentials holds the Unsplash access key.
type UnsplashCredentials struct {
	AccessKey string `mapstructure:"access_key"`
}

// TwilioCredentials holds Twilio messaging credentials.
type TwilioCredentials struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	ToNumber   string `mapstructure:"to_number"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockwatch"
	}
	return filepath.Join(home, ".config", "stockwatch")
}

// DefaultDatabasePath returns the default SQLite database path.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "stockwatch.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("monitor.requests_per_minute", 30)
	v.SetDefault("monitor.timeout", "10s")
	v.SetDefault("monitor.history_days", 30)
	v.SetDefault("monitor.news_limit", 5)
	v.SetDefault("monitor.price_interval", "24h")
	v.SetDefault("monitor.news_interval", "24h")
	v.SetDefault("monitor.stocks_csv", "stocks.csv")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.use_whatsapp", true)
	v.SetDefault("database.path", DefaultDatabasePath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Credentials.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.Credentials.NewsAPI.APIKey = v
	}
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		cfg.Credentials.Unsplash.AccessKey = v
	}

	// Twilio credentials
	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		cfg.Credentials.Twilio.AccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.Credentials.Twilio.AuthToken = v
	}
	if v := os.Getenv("TWILIO_PHONE_NUMBER"); v != "" {
		cfg.Credentials.Twilio.FromNumber = v
	}
	if v := os.Getenv("ALERT_PHONE_NUMBER"); v != "" {
		cfg.Credentials.Twilio.ToNumber = v
	}

	if v := os.Getenv("STOCKWATCH_DB"); v != "" {
		cfg.Database.Path = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Monitor.RequestsPerMinute <= 0 {
		cfg.Monitor.RequestsPerMinute = 30
	}
	if cfg.Monitor.Timeout <= 0 {
		cfg.Monitor.Timeout = 10 * time.Second
	}
	if cfg.Monitor.HistoryDays <= 0 {
		cfg.Monitor.HistoryDays = 30
	}
	if cfg.Monitor.NewsLimit <= 0 {
		cfg.Monitor.NewsLimit = 5
	}
	if cfg.Monitor.PriceInterval <= 0 {
		cfg.Monitor.PriceInterval = 24 * time.Hour
	}
	if cfg.Monitor.NewsInterval <= 0 {
		cfg.Monitor.NewsInterval = 24 * time.Hour
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Monitor.HistoryDays < 1 || c.Monitor.HistoryDays > 365 {
		return fmt.Errorf("history_days must be between 1 and 365")
	}
	if c.Monitor.NewsLimit < 1 || c.Monitor.NewsLimit > 100 {
		return fmt.Errorf("news_limit must be between 1 and 100")
	}
	if c.Monitor.RequestsPerMinute < 1 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	return nil
}

// Channel returns the configured notification channel name.
func (c *Config) Channel() string {
	if c.Notifications.UseWhatsApp {
		return "whatsapp"
	}
	return "sms"
}
