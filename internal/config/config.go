package config

// AggregatorConfig is the root configuration for an aggregator instance.
type AggregatorConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Universe  UniverseConfig  `yaml:"universe"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	LiveQuote LiveQuoteConfig `yaml:"live_quote"`
	Rates     RatesConfig     `yaml:"rates"`
	Records   RecordsConfig   `yaml:"records"`
	AI        AIConfig        `yaml:"ai"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InstanceConfig identifies this aggregator.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	PublicDir string `yaml:"public_dir"` // Snapshot files live here, served statically
}

// ProvidersConfig holds the upstream quote source settings.
// A provider with an empty base URL is not registered at startup.
type ProvidersConfig struct {
	Yahoo       ProviderConfig `yaml:"yahoo"`
	TradingView ProviderConfig `yaml:"tradingview"`
	CoinGecko   ProviderConfig `yaml:"coingecko"`
}

// ProviderConfig holds one upstream HTTP client's settings.
type ProviderConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// UniverseConfig defines the symbol universes each refresh pass covers.
type UniverseConfig struct {
	Stocks       []string `yaml:"stocks"`        // Fixed list of equity tickers
	CuratedCoins []string `yaml:"curated_coins"` // High-priority crypto symbols
	PageSize     int      `yaml:"page_size"`     // Screener page size
	MaxPages     int      `yaml:"max_pages"`     // Upper bound on screener pages
}

// AggregateConfig holds bulk-aggregation throttle settings.
type AggregateConfig struct {
	BatchSize  int      `yaml:"batch_size"`  // Concurrent requests per batch
	BatchDelay Duration `yaml:"batch_delay"` // Pause between batches
}

// RefreshConfig holds the per-dataset refresh intervals.
type RefreshConfig struct {
	Stocks      Duration `yaml:"stocks"`
	CoinsUSD    Duration `yaml:"coins_usd"`
	CoinsTRY    Duration `yaml:"coins_try"`
	GlobalStats Duration `yaml:"global_stats"`
}

// LiveQuoteConfig holds the request-path cache and circuit breaker settings.
type LiveQuoteConfig struct {
	TTL              Duration `yaml:"ttl"`
	BreakerThreshold int      `yaml:"breaker_threshold"`
	BreakerCooldown  Duration `yaml:"breaker_cooldown"`
}

// RatesConfig holds the currency conversion settings.
type RatesConfig struct {
	FallbackUSDTRY float64 `yaml:"fallback_usd_try"`
}

// RecordsConfig holds the habit record store settings.
// The store is optional; when disabled the records endpoints are not mounted.
type RecordsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// AIConfig holds the chat-completion proxy settings.
type AIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Token    string `yaml:"token"` // Usually ${AI_TOKEN} via env expansion
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}
