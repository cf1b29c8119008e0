// Package config はアプリケーション設定の読み込みを提供します。
// 優先順位: 環境変数 > configs/config.yaml > デフォルト値
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the dashboard server.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Market     MarketConfig     `mapstructure:"market"`
	TwelveData TwelveDataConfig `mapstructure:"twelvedata"`
	Yahoo      YahooConfig      `mapstructure:"yahoo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

type MarketConfig struct {
	Provider           string        `mapstructure:"provider"` // yahoo or twelvedata
	Timeout            time.Duration `mapstructure:"timeout"`
	Proxy              string        `mapstructure:"proxy"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

type TwelveDataConfig struct {
	APIKey  string `mapstructure:"api_key" json:"-" yaml:"-"`
	BaseURL string `mapstructure:"base_url"`
}

type YahooConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password" json:"-" yaml:"-"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"` // 0 means until the next refresh
	Namespace       string        `mapstructure:"namespace"`
	RefreshHour     int           `mapstructure:"refresh_hour"`
	RefreshLocation string        `mapstructure:"refresh_location"`
}

type DatabaseConfig struct {
	Driver        string `mapstructure:"driver"` // sqlite or postgres
	Path          string `mapstructure:"path"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password" json:"-" yaml:"-"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

type DashboardConfig struct {
	DefaultTicker string `mapstructure:"default_ticker"`
	DefaultStart  string `mapstructure:"default_start"`
	DefaultEnd    string `mapstructure:"default_end"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads .env, then configs/config.yaml (or ./config.yaml), then environment variables.
// A missing .env or yaml file is not an error.
func Load() (*Config, error) {
	// .env は任意
	_ = godotenv.Load()
	return LoadFrom("./configs", ".")
}

// LoadFrom reads config.yaml from the first of paths that has one.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	if err := v.BindEnv("twelvedata.api_key", "TWELVEDATA_API_KEY", "TWELVE_DATA_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind TWELVE_DATA_API_KEY environment variable: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Market.Provider = strings.ToLower(strings.TrimSpace(cfg.Market.Provider))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that would make the server unusable.
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case "yahoo":
	case "twelvedata":
		if c.TwelveData.APIKey == "" {
			return errors.New("TWELVE_DATA_API_KEY is required when market.provider is twelvedata")
		}
	default:
		return fmt.Errorf("unknown market.provider %q: expected yahoo or twelvedata", c.Market.Provider)
	}

	switch c.Database.Driver {
	case "", "none", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database.driver %q: expected sqlite or postgres", c.Database.Driver)
	}

	if c.Cache.RefreshHour < 0 || c.Cache.RefreshHour > 23 {
		return fmt.Errorf("cache.refresh_hour must be between 0 and 23, got %d", c.Cache.RefreshHour)
	}
	if _, err := time.LoadLocation(c.Cache.RefreshLocation); err != nil {
		return fmt.Errorf("invalid cache.refresh_location: %w", err)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	for key, s := range map[string]string{
		"dashboard.default_start": c.Dashboard.DefaultStart,
		"dashboard.default_end":   c.Dashboard.DefaultEnd,
	} {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", key, s)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Market data defaults
	v.SetDefault("market.provider", "yahoo")
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("market.proxy", "")
	v.SetDefault("market.rate_limit_per_minute", 60)
	v.SetDefault("twelvedata.api_key", "")
	v.SetDefault("twelvedata.base_url", "https://api.twelvedata.com")
	v.SetDefault("yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("yahoo.user_agent", "Mozilla/5.0")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.namespace", "prices")
	v.SetDefault("cache.refresh_hour", 18)
	v.SetDefault("cache.refresh_location", "America/New_York")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/dashboard.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "dashboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.run_migrations", true)

	// Dashboard defaults
	v.SetDefault("dashboard.default_ticker", "AAPL")
	v.SetDefault("dashboard.default_start", "2003-01-01")
	v.SetDefault("dashboard.default_end", "2023-01-01")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
