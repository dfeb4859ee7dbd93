package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort       = 3001
	DefaultPublicDir        = "public"
	DefaultYahooURL         = "https://query1.finance.yahoo.com"
	DefaultCoinGeckoURL     = "https://api.coingecko.com/api/v3"
	DefaultProviderTimeout  = 15 * time.Second
	DefaultMaxRetries       = 2
	DefaultPageSize         = 250
	DefaultMaxPages         = 100
	DefaultBatchSize        = 10
	DefaultBatchDelay       = 100 * time.Millisecond
	DefaultStocksInterval   = 15 * time.Minute
	DefaultCoinsUSDInterval = 5 * time.Minute
	DefaultCoinsTRYInterval = 10 * time.Minute
	DefaultStatsInterval    = 15 * time.Minute
	DefaultLiveQuoteTTL     = 30 * time.Second
	DefaultBreakerThreshold = 3
	DefaultBreakerCooldown  = 60 * time.Second
	DefaultFallbackUSDTRY   = 32.5
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultLogLevel         = "info"
)

// DefaultStocks is the default equity universe (Borsa Istanbul, Yahoo suffix).
var DefaultStocks = []string{
	"ASELS.IS", "THYAO.IS", "GARAN.IS", "BIMAS.IS", "AKBNK.IS",
	"EREGL.IS", "SISE.IS", "PETKM.IS", "TUPRS.IS", "TAVHL.IS",
	"ISCTR.IS", "HALKB.IS", "VAKBN.IS", "YKBNK.IS", "TCELL.IS",
	"FROTO.IS", "TOASO.IS", "TSKB.IS", "TTRAK.IS", "MGROS.IS",
	"KCHOL.IS", "AKSUE.IS", "KRDMD.IS", "KOZAL.IS", "KOZAA.IS",
	"ARCLK.IS", "ENKAI.IS", "ISGYO.IS", "KAPLM.IS",
	"IHLGM.IS", "KORDS.IS", "KARSN.IS",
}

// DefaultCuratedCoins is the default high-priority crypto list, tried against
// the crypto provider chain before the paginated screener fills in the rest.
var DefaultCuratedCoins = []string{
	"BTC", "ETH", "BNB", "SOL", "ADA", "XRP", "DOGE", "DOT", "MATIC", "AVAX",
	"LINK", "UNI", "LTC", "ATOM", "ETC", "XLM", "NEAR", "APT", "FIL", "HBAR",
	"ARB", "VET", "ICP", "THETA", "ALGO", "OP", "INJ", "SUI", "TIA", "SEI",
	"ORDI", "RENDER", "TAO", "WLD", "FET", "RUNE", "ONDO", "JTO", "FTM", "SAND",
	"AXS", "GALA", "CHZ", "ENJ", "AAVE", "COMP", "MKR", "SNX", "CRV", "GRT",
}

func (c *AggregatorConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = DefaultPublicDir
	}

	// Provider defaults. TradingView has no public default endpoint; it stays
	// unregistered unless configured.
	if c.Providers.Yahoo.BaseURL == "" {
		c.Providers.Yahoo.BaseURL = DefaultYahooURL
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		c.Providers.CoinGecko.BaseURL = DefaultCoinGeckoURL
	}
	applyProviderDefaults(&c.Providers.Yahoo)
	applyProviderDefaults(&c.Providers.TradingView)
	applyProviderDefaults(&c.Providers.CoinGecko)

	// Universe defaults
	if len(c.Universe.Stocks) == 0 {
		c.Universe.Stocks = DefaultStocks
	}
	if len(c.Universe.CuratedCoins) == 0 {
		c.Universe.CuratedCoins = DefaultCuratedCoins
	}
	if c.Universe.PageSize == 0 {
		c.Universe.PageSize = DefaultPageSize
	}
	if c.Universe.MaxPages == 0 {
		c.Universe.MaxPages = DefaultMaxPages
	}

	// Aggregate defaults
	if c.Aggregate.BatchSize == 0 {
		c.Aggregate.BatchSize = DefaultBatchSize
	}
	if c.Aggregate.BatchDelay == 0 {
		c.Aggregate.BatchDelay = Duration(DefaultBatchDelay)
	}

	// Refresh defaults
	if c.Refresh.Stocks == 0 {
		c.Refresh.Stocks = Duration(DefaultStocksInterval)
	}
	if c.Refresh.CoinsUSD == 0 {
		c.Refresh.CoinsUSD = Duration(DefaultCoinsUSDInterval)
	}
	if c.Refresh.CoinsTRY == 0 {
		c.Refresh.CoinsTRY = Duration(DefaultCoinsTRYInterval)
	}
	if c.Refresh.GlobalStats == 0 {
		c.Refresh.GlobalStats = Duration(DefaultStatsInterval)
	}

	// Live quote defaults
	if c.LiveQuote.TTL == 0 {
		c.LiveQuote.TTL = Duration(DefaultLiveQuoteTTL)
	}
	if c.LiveQuote.BreakerThreshold == 0 {
		c.LiveQuote.BreakerThreshold = DefaultBreakerThreshold
	}
	if c.LiveQuote.BreakerCooldown == 0 {
		c.LiveQuote.BreakerCooldown = Duration(DefaultBreakerCooldown)
	}

	// Rates defaults
	if c.Rates.FallbackUSDTRY == 0 {
		c.Rates.FallbackUSDTRY = DefaultFallbackUSDTRY
	}

	// Records defaults
	applyDBDefaults(&c.Records.Postgres)

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

func applyProviderDefaults(p *ProviderConfig) {
	if p.Timeout == 0 {
		p.Timeout = Duration(DefaultProviderTimeout)
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
