package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  logging.Config `mapstructure:"logging"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

// ServerConfig covers the HTTP listener.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// CacheConfig governs snapshot staleness.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// UpstreamConfig bounds and addresses the third-party data providers.
type UpstreamConfig struct {
	// PerCallTimeout bounds one outbound call; AggregationTimeout bounds the
	// whole snapshot rebuild.
	PerCallTimeout     time.Duration `mapstructure:"per_call_timeout"`
	AggregationTimeout time.Duration `mapstructure:"aggregation_timeout"`

	// MaxRequestsPerMinute gates all outbound calls with a shared token
	// bucket when > 0.
	MaxRequestsPerMinute int `mapstructure:"max_requests_per_minute"`
	Burst                int `mapstructure:"burst"`

	Binance    EndpointConfig `mapstructure:"binance"`
	CoinGecko  EndpointConfig `mapstructure:"coingecko"`
	Yahoo      EndpointConfig `mapstructure:"yahoo"`
	FRED       EndpointConfig `mapstructure:"fred"`
	Polymarket EndpointConfig `mapstructure:"polymarket"`
}

// EndpointConfig addresses one provider.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BITCOINPRO")
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
	v.SetDefault("server.port", "3000")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("cache.ttl", "30s")

	v.SetDefault("upstream.per_call_timeout", "7s")
	v.SetDefault("upstream.aggregation_timeout", "25s")
	v.SetDefault("upstream.max_requests_per_minute", 0)
	v.SetDefault("upstream.burst", 1)

	v.SetDefault("upstream.binance.base_url", "https://api.binance.com")
	v.SetDefault("upstream.coingecko.base_url", "https://api.coingecko.com")
	v.SetDefault("upstream.yahoo.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("upstream.fred.base_url", "https://api.stlouisfed.org")
	v.SetDefault("upstream.polymarket.base_url", "https://gamma-api.polymarket.com")

	// Empty defaults register the keys so environment overrides bind.
	v.SetDefault("upstream.fred.api_key", "")
	v.SetDefault("upstream.coingecko.api_key", "")
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
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must be set")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be greater than zero")
	}
	if c.Upstream.PerCallTimeout <= 0 {
		return fmt.Errorf("upstream.per_call_timeout must be greater than zero")
	}
	if c.Upstream.AggregationTimeout <= 0 {
		return fmt.Errorf("upstream.aggregation_timeout must be greater than zero")
	}
	if c.Upstream.PerCallTimeout >= c.Upstream.AggregationTimeout {
		return fmt.Errorf("upstream.per_call_timeout must be shorter than upstream.aggregation_timeout")
	}
	return nil
}
