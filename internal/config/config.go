// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	HealthPort  int    `mapstructure:"health_port"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime
}

// WalletConfig holds wallet provider and session settings.
type WalletConfig struct {
	BridgeURL         string        `mapstructure:"bridge_url"` // empty = no live provider
	ChainID           uint64        `mapstructure:"chain_id"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	InitTimeout       time.Duration `mapstructure:"init_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	AccountDebounce   time.Duration `mapstructure:"account_debounce"`
	ChainDebounce     time.Duration `mapstructure:"chain_debounce"`
	DemoAddress       string        `mapstructure:"demo_address"`
	DemoDelay         time.Duration `mapstructure:"demo_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// DemoAddressHex returns the demo account as common.Address.
func (c *WalletConfig) DemoAddressHex() common.Address {
	return common.HexToAddress(c.DemoAddress)
}

// RewardsConfig holds the reward currency and amounts.
type RewardsConfig struct {
	TokenSymbol     string  `mapstructure:"token_symbol"`
	TokenName       string  `mapstructure:"token_name"`
	TokenDecimals   uint8   `mapstructure:"token_decimals"`
	PerContribution float64 `mapstructure:"per_contribution"`
	DemoBaseline    float64 `mapstructure:"demo_baseline"`
	LogCapacity     int     `mapstructure:"log_capacity"`
}

// PerContributionDecimal returns the reward per contribution.
func (c *RewardsConfig) PerContributionDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.PerContribution)
}

// DemoBaselineDecimal returns the demo-mode starting balance.
func (c *RewardsConfig) DemoBaselineDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DemoBaseline)
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | memory
	Path   string `mapstructure:"path"`
}

// ModerationConfig holds the keyword lists for the content heuristic.
type ModerationConfig struct {
	BlockedKeywords []string `mapstructure:"blocked_keywords"`
	FlaggedKeywords []string `mapstructure:"flagged_keywords"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Provider       string `mapstructure:"provider"` // zipkin | console | honeycomb | otlp | none
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`  // key=value
	OTLPProtocol   string `mapstructure:"otlp_protocol"` // grpc | http/protobuf
	MetricsURL     string `mapstructure:"metrics_url"`   // OTLP collector; empty = prometheus only
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("REWARDS")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "REWARDS_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "REWARDS_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "REWARDS_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.health_port", "REWARDS_HEALTH_PORT")

	v.BindEnv("wallet.bridge_url", "REWARDS_WALLET_BRIDGE_URL", "WALLET_BRIDGE_URL")
	v.BindEnv("wallet.chain_id", "REWARDS_WALLET_CHAIN_ID", "WALLET_CHAIN_ID")
	v.BindEnv("wallet.max_attempts", "REWARDS_WALLET_MAX_ATTEMPTS")
	v.BindEnv("wallet.demo_address", "REWARDS_WALLET_DEMO_ADDRESS")

	v.BindEnv("rewards.per_contribution", "REWARDS_PER_CONTRIBUTION")

	v.BindEnv("storage.driver", "REWARDS_STORAGE_DRIVER")
	v.BindEnv("storage.path", "REWARDS_STORAGE_PATH")

	v.BindEnv("telemetry.enabled", "REWARDS_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "REWARDS_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "REWARDS_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "REWARDS_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.otlp_protocol", "REWARDS_OTEL_PROTOCOL", "OTEL_EXPORTER_OTLP_PROTOCOL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "campus-rewards")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", 8081)

	v.SetDefault("wallet.bridge_url", "")
	v.SetDefault("wallet.chain_id", 80002) // Polygon Amoy testnet
	v.SetDefault("wallet.max_attempts", 3)
	v.SetDefault("wallet.init_timeout", "5s")
	v.SetDefault("wallet.request_timeout", "60s") // user may sit on the approval prompt
	v.SetDefault("wallet.account_debounce", "500ms")
	v.SetDefault("wallet.chain_debounce", "1s")
	v.SetDefault("wallet.demo_address", "0x1111111111111111111111111111111111111111")
	v.SetDefault("wallet.demo_delay", "300ms")
	v.SetDefault("wallet.requests_per_second", 2)

	v.SetDefault("rewards.token_symbol", "CAMPUS")
	v.SetDefault("rewards.token_name", "Campus Credit")
	v.SetDefault("rewards.token_decimals", 18)
	v.SetDefault("rewards.per_contribution", 10)
	v.SetDefault("rewards.demo_baseline", 100)
	v.SetDefault("rewards.log_capacity", 50)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "campus-rewards.db")

	v.SetDefault("moderation.blocked_keywords", []string{"kill", "bomb", "suicide", "shoot"})
	v.SetDefault("moderation.flagged_keywords", []string{"stupid", "idiot", "hate", "harass", "drunk", "fight"})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.provider", "zipkin")
	v.SetDefault("telemetry.service_name", "campus-rewards")
	v.SetDefault("telemetry.otlp_protocol", "grpc")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Wallet.MaxAttempts < 1 {
		return fmt.Errorf("wallet.max_attempts must be at least 1")
	}
	if c.Wallet.InitTimeout <= 0 {
		return fmt.Errorf("wallet.init_timeout must be positive")
	}
	if !common.IsHexAddress(c.Wallet.DemoAddress) {
		return fmt.Errorf("invalid wallet.demo_address: %s", c.Wallet.DemoAddress)
	}
	if c.Rewards.PerContribution <= 0 {
		return fmt.Errorf("rewards.per_contribution must be positive")
	}
	if c.Rewards.DemoBaseline < 0 {
		return fmt.Errorf("rewards.demo_baseline cannot be negative")
	}
	if c.Rewards.LogCapacity < 1 {
		return fmt.Errorf("rewards.log_capacity must be at least 1")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unknown storage.driver: %s", c.Storage.Driver)
	}
	return nil
}
