// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig              `mapstructure:"app"`
	Exchanges   ExchangesConfig        `mapstructure:"exchanges"`
	Aggregators AggregatorsConfig      `mapstructure:"aggregators"`
	Chains      map[string]ChainConfig `mapstructure:"chains"`
	Scanner     ScannerConfig          `mapstructure:"scanner"`
	Stream      StreamConfig           `mapstructure:"stream"`
	Telemetry   TelemetryConfig        `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ExchangeConfig describes one CEX orderbook endpoint.
type ExchangeConfig struct {
	OrderbookURL string `mapstructure:"orderbook_url"` // template with {symbol} placeholder
	Parser       string `mapstructure:"parser"`        // standard|indodax|kucoin|bitget|bybit
	JedaMs       int    `mapstructure:"jeda_ms"`       // pacing delay between requests
	Enabled      bool   `mapstructure:"enabled"`
	// WithdrawFees maps asset symbol to withdrawal fee in raw token units.
	WithdrawFees map[string]float64 `mapstructure:"withdraw_fees"`
}

// ExchangesConfig holds the CEX side: endpoints, book depth and retry policy.
type ExchangesConfig struct {
	Endpoints     map[string]ExchangeConfig `mapstructure:"endpoints"`
	Depth         int                       `mapstructure:"depth"`
	FXRateURL     string                    `mapstructure:"fx_rate_url"`
	FXRateTTL     time.Duration             `mapstructure:"fx_rate_ttl"`
	CacheTTL      time.Duration             `mapstructure:"cache_ttl"`
	RetryAttempts int                       `mapstructure:"retry_attempts"`
	RetryBaseMs   int                       `mapstructure:"retry_base_ms"`
}

// AggregatorConfig describes one DEX aggregator entry.
type AggregatorConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Proxy   bool   `mapstructure:"proxy"`
	APIKey  string `mapstructure:"api_key"`
}

// PlanConfig names the primary and optional alternative strategy
// for one (aggregator, direction) combination.
type PlanConfig struct {
	Primary     string `mapstructure:"primary"`
	Alternative string `mapstructure:"alternative"`
}

// OKXKeyConfig is one credential in the OKX signing pool.
type OKXKeyConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Secret     string `mapstructure:"secret"`
	Passphrase string `mapstructure:"passphrase"`
}

// AggregatorsConfig holds the DEX quoting side.
type AggregatorsConfig struct {
	Entries     map[string]AggregatorConfig `mapstructure:"entries"`
	ProxyPrefix string                      `mapstructure:"proxy_prefix"`
	// Plans are keyed "<aggregator>.<direction>", e.g. "odos.token_to_pair".
	Plans         map[string]PlanConfig `mapstructure:"plans"`
	OKXKeys       []OKXKeyConfig        `mapstructure:"okx_keys"`
	WalletAddress string                `mapstructure:"wallet_address"`
}

// ChainConfig holds per-chain settings for fee estimation.
type ChainConfig struct {
	Code       string  `mapstructure:"code"`
	RPCURL     string  `mapstructure:"rpc_url"`
	FeeSwapUSD float64 `mapstructure:"fee_swap_usd"`
	// NativeUSD is a rough native-coin price used to convert a live gas
	// price into USD. Zero disables the live estimate for the chain.
	NativeUSD float64 `mapstructure:"native_usd"`
	// GasUnits is the swap gas budget for the live estimate.
	GasUnits uint64 `mapstructure:"gas_units"`
}

// FeeSwapUSDDecimal returns the chain's fallback swap fee as a decimal.
func (c *ChainConfig) FeeSwapUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FeeSwapUSD)
}

// ScannerConfig drives the scan loop.
type ScannerConfig struct {
	Pairs            []string  `mapstructure:"pairs"`
	Chain            string    `mapstructure:"chain"`
	Aggregators      []string  `mapstructure:"aggregators"`
	TradeSizes       []float64 `mapstructure:"trade_sizes"`
	MinProfitBps     float64   `mapstructure:"min_profit_bps"`
	MinProfitUSD     float64   `mapstructure:"min_profit_usd"`
	SpeedScanSeconds int       `mapstructure:"speed_scan_seconds"`
	MaxConcurrent    int       `mapstructure:"max_concurrent"`
	TUIMode          bool      `mapstructure:"-"` // set at runtime, not from config file
}

// TradeSizesDecimal returns trade sizes as decimal.Decimal slice.
func (c *ScannerConfig) TradeSizesDecimal() []decimal.Decimal {
	result := make([]decimal.Decimal, len(c.TradeSizes))
	for i, s := range c.TradeSizes {
		result[i] = decimal.NewFromFloat(s)
	}
	return result
}

// QuoteTimeout converts the scan-speed setting into a request timeout,
// floored at 2 seconds so aggressive settings cannot starve slow providers.
func (c *ScannerConfig) QuoteTimeout() time.Duration {
	secs := c.SpeedScanSeconds
	if secs < 2 {
		secs = 2
	}
	return time.Duration(secs) * time.Second
}

// StreamConfig holds the Binance bookTicker warm feed settings.
type StreamConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	WebSocketURL string        `mapstructure:"websocket_url"`
	Symbols      []string      `mapstructure:"symbols"`
	StaleTimeout time.Duration `mapstructure:"stale_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
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

	v.SetEnvPrefix("SCAN")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, env vars and defaults apply.
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
	// App
	v.BindEnv("app.name", "SCAN_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCAN_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCAN_LOG_LEVEL", "LOG_LEVEL")

	// Exchanges
	v.BindEnv("exchanges.depth", "SCAN_BOOK_DEPTH")
	v.BindEnv("exchanges.fx_rate_url", "SCAN_FX_RATE_URL")

	// Aggregators
	v.BindEnv("aggregators.proxy_prefix", "SCAN_PROXY_PREFIX")
	v.BindEnv("aggregators.wallet_address", "SCAN_WALLET_ADDRESS", "WALLET_ADDRESS")

	// Scanner
	v.BindEnv("scanner.pairs", "SCAN_PAIRS")
	v.BindEnv("scanner.min_profit_bps", "SCAN_MIN_PROFIT_BPS")
	v.BindEnv("scanner.min_profit_usd", "SCAN_MIN_PROFIT_USD")
	v.BindEnv("scanner.speed_scan_seconds", "SCAN_SPEED_SCAN")

	// Stream
	v.BindEnv("stream.websocket_url", "SCAN_BINANCE_WS_URL", "BINANCE_WS_URL")
	v.BindEnv("stream.symbols", "SCAN_BINANCE_SYMBOLS", "BINANCE_SYMBOLS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SCAN_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCAN_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCAN_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "scanarb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Exchange defaults
	v.SetDefault("exchanges.depth", 4)
	v.SetDefault("exchanges.fx_rate_url", "https://indodax.com/api/ticker/usdtidr")
	v.SetDefault("exchanges.fx_rate_ttl", "5m")
	v.SetDefault("exchanges.cache_ttl", "3s")
	v.SetDefault("exchanges.retry_attempts", 3)
	v.SetDefault("exchanges.retry_base_ms", 400)
	v.SetDefault("exchanges.endpoints", map[string]ExchangeConfig{
		"BINANCE": {OrderbookURL: "https://api.binance.com/api/v3/depth?symbol={symbol}&limit=20", Parser: "standard", Enabled: true},
		"KUCOIN":  {OrderbookURL: "https://api.kucoin.com/api/v1/market/orderbook/level2_20?symbol={symbol}", Parser: "kucoin", Enabled: true},
		"BITGET":  {OrderbookURL: "https://api.bitget.com/api/v2/spot/market/orderbook?symbol={symbol}&limit=20", Parser: "bitget", Enabled: true},
		"BYBIT":   {OrderbookURL: "https://api.bybit.com/v5/market/orderbook?category=spot&symbol={symbol}&limit=20", Parser: "bybit", Enabled: true},
		"INDODAX": {OrderbookURL: "https://indodax.com/api/depth/{symbol}", Parser: "indodax", Enabled: true},
	})

	// Aggregator defaults
	v.SetDefault("aggregators.proxy_prefix", "")
	v.SetDefault("aggregators.plans", map[string]PlanConfig{
		"odos.token_to_pair":     {Primary: "odos", Alternative: "hinkal"},
		"hinkal.token_to_pair":   {Primary: "hinkal", Alternative: "odos"},
		"kyber.token_to_pair":    {Primary: "kyber", Alternative: "swoop"},
		"kyber.pair_to_token":    {Primary: "kyber", Alternative: "lifi"},
		"1inch.token_to_pair":    {Primary: "1inch", Alternative: "swoop"},
		"1inch.pair_to_token":    {Primary: "1inch", Alternative: "lifi"},
		"0x.token_to_pair":       {Primary: "0x", Alternative: "dzap"},
		"0x.pair_to_token":       {Primary: "0x", Alternative: "dzap"},
		"okx.token_to_pair":      {Primary: "okx", Alternative: "dzap"},
		"okx.pair_to_token":      {Primary: "okx", Alternative: "dzap"},
		"paraswap.token_to_pair": {Primary: "paraswap", Alternative: "dzap"},
		"paraswap.pair_to_token": {Primary: "paraswap", Alternative: "dzap"},
	})

	// Chain defaults
	v.SetDefault("chains", map[string]ChainConfig{
		"ethereum": {Code: "1", FeeSwapUSD: 8.0, NativeUSD: 3000, GasUnits: 200000},
		"bsc":      {Code: "56", FeeSwapUSD: 0.3, NativeUSD: 600, GasUnits: 200000},
		"polygon":  {Code: "137", FeeSwapUSD: 0.05, NativeUSD: 0.5, GasUnits: 200000},
		"arbitrum": {Code: "42161", FeeSwapUSD: 0.15, NativeUSD: 3000, GasUnits: 600000},
		"base":     {Code: "8453", FeeSwapUSD: 0.1, NativeUSD: 3000, GasUnits: 200000},
		"solana":   {Code: "501", FeeSwapUSD: 0.02},
	})

	// Scanner defaults
	v.SetDefault("scanner.pairs", []string{"ETH-USDT"})
	v.SetDefault("scanner.chain", "bsc")
	v.SetDefault("scanner.aggregators", []string{"kyber", "odos"})
	v.SetDefault("scanner.trade_sizes", []float64{100, 500, 1000})
	v.SetDefault("scanner.min_profit_bps", 10)
	v.SetDefault("scanner.min_profit_usd", 5)
	v.SetDefault("scanner.speed_scan_seconds", 10)
	v.SetDefault("scanner.max_concurrent", 4)

	// Stream defaults
	v.SetDefault("stream.enabled", false)
	v.SetDefault("stream.websocket_url", "wss://stream.binance.com:9443")
	v.SetDefault("stream.symbols", []string{"ETHUSDT"})
	v.SetDefault("stream.stale_timeout", "5s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "scanarb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Exchanges.Endpoints) == 0 {
		return fmt.Errorf("exchanges.endpoints cannot be empty")
	}
	for name, ex := range c.Exchanges.Endpoints {
		if !ex.Enabled {
			continue
		}
		if ex.OrderbookURL == "" {
			return fmt.Errorf("exchanges.endpoints.%s.orderbook_url is required", name)
		}
		if !strings.Contains(ex.OrderbookURL, "{symbol}") {
			return fmt.Errorf("exchanges.endpoints.%s.orderbook_url must contain a {symbol} placeholder", name)
		}
	}
	if c.Exchanges.Depth < 1 {
		return fmt.Errorf("exchanges.depth must be at least 1")
	}
	if c.Aggregators.WalletAddress != "" && !common.IsHexAddress(c.Aggregators.WalletAddress) {
		return fmt.Errorf("invalid aggregators.wallet_address: %s", c.Aggregators.WalletAddress)
	}
	for key, plan := range c.Aggregators.Plans {
		if plan.Primary == "" {
			return fmt.Errorf("aggregators.plans.%s.primary is required", key)
		}
	}
	if len(c.Scanner.Pairs) == 0 {
		return fmt.Errorf("scanner.pairs cannot be empty")
	}
	return nil
}
