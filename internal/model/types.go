package model

import (
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Quote
// -----------------------------------------------------------------------------

// Quote is the normalized record for one tradable symbol.
type Quote struct {
	Symbol        string     `json:"symbol"`                  // Provider-qualified or canonical symbol
	Price         *float64   `json:"price"`                   // nil when no price could be obtained
	Timestamp     *time.Time `json:"timestamp"`               // Quote time, nil if unknown
	Change        *float64   `json:"change,omitempty"`        // Absolute change
	ChangePercent *float64   `json:"changePercent,omitempty"` // Percentage change (24h for crypto)
	DayHigh       *float64   `json:"dayHigh,omitempty"`
	DayLow        *float64   `json:"dayLow,omitempty"`
	Volume        *float64   `json:"volume,omitempty"`
	AverageVolume *float64   `json:"averageVolume,omitempty"`
	MarketCap     *float64   `json:"marketCap,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	Exchange      string     `json:"exchange,omitempty"`
	ShortName     string     `json:"shortName,omitempty"`
	LongName      string     `json:"longName,omitempty"`
	Error         string     `json:"error,omitempty"` // Set when no price could be obtained
}

// Failed returns a failed Quote for the given symbol.
func Failed(symbol, msg string) Quote {
	return Quote{Symbol: symbol, Error: msg}
}

// Resolved reports whether the quote carries a usable price.
func (q Quote) Resolved() bool {
	return q.Price != nil && q.Error == ""
}

// MarketCapOrZero returns the market cap, treating missing as zero.
// Used for descending sorts where failed entries rank last.
func (q Quote) MarketCapOrZero() float64 {
	if q.MarketCap == nil {
		return 0
	}
	return *q.MarketCap
}

// PriceOrZero returns the price, or zero for failed quotes.
func (q Quote) PriceOrZero() float64 {
	if q.Price == nil {
		return 0
	}
	return *q.Price
}

// Float returns a pointer to v. Helper for building quotes from coerced fields.
func Float(v float64) *float64 { return &v }

// -----------------------------------------------------------------------------
// Coin projection
// -----------------------------------------------------------------------------

// Coin is the dashboard-facing projection of a crypto Quote, ranked by
// market cap within one aggregation pass.
type Coin struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"current_price"`
	Change24h        float64 `json:"price_change_24h"`
	ChangePercent24h float64 `json:"price_change_percentage_24h"`
	High24h          float64 `json:"high_24h"`
	Low24h           float64 `json:"low_24h"`
	Volume           float64 `json:"total_volume"`
	MarketCap        float64 `json:"market_cap"`
	MarketCapRank    int     `json:"market_cap_rank"`
	Error            string  `json:"error,omitempty"`
}

// CoinFromQuote projects a Quote into a ranked Coin entry.
func CoinFromQuote(q Quote, rank int) Coin {
	c := Coin{
		ID:            strings.ToLower(q.Symbol),
		Symbol:        q.Symbol,
		Name:          q.ShortName,
		MarketCapRank: rank,
		Error:         q.Error,
	}
	if c.Name == "" {
		c.Name = q.Symbol
	}
	c.Price = q.PriceOrZero()
	if q.Change != nil {
		c.Change24h = *q.Change
	}
	if q.ChangePercent != nil {
		c.ChangePercent24h = *q.ChangePercent
	}
	if q.DayHigh != nil {
		c.High24h = *q.DayHigh
	}
	if q.DayLow != nil {
		c.Low24h = *q.DayLow
	}
	if q.Volume != nil {
		c.Volume = *q.Volume
	}
	c.MarketCap = q.MarketCapOrZero()
	return c
}

// -----------------------------------------------------------------------------
// Global market stats
// -----------------------------------------------------------------------------

// CurrencyPair holds a market-wide figure in USD and the local currency.
type CurrencyPair struct {
	USD       float64 `json:"usd"`
	TRY       float64 `json:"try"`
	Change24h float64 `json:"change24h"`
}

// MarketStats is one pass of the global market aggregate. The fear/greed
// index needs a separate keyed API, so no field is carried for it rather
// than serving a synthetic value.
type MarketStats struct {
	USDTRYRate     float64      `json:"usdTryRate"`
	TotalMarketCap CurrencyPair `json:"totalMarketCap"`
	TotalVolume    CurrencyPair `json:"totalVolume"`
	BTCDominance   float64      `json:"btcDominance"`
	ActiveCoins    int          `json:"activeCoins"`
}
