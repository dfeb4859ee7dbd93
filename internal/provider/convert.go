package provider

import (
	"strings"
	"time"

	"github.com/oguzhankarahan/quoteboard/internal/model"
)

// CanonicalCryptoSymbol normalizes a crypto symbol across providers.
// "BINANCE:BTCUSDT", "BTC-USD", "btc" all canonicalize to "BTC".
func CanonicalCryptoSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, "-USD")
	s = strings.TrimSuffix(s, "USDT")
	return s
}

// IsDelayedSymbol reports whether a symbol names a locally-traded equity,
// whose quotes are exchange-delayed. Everything else (crypto) is live.
func IsDelayedSymbol(s string) bool {
	up := strings.ToUpper(s)
	return strings.HasPrefix(up, "BIST:") || strings.HasSuffix(up, ".IS")
}

// unixTime converts epoch seconds to a *time.Time, nil for nil input.
func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}

// timePtr returns a pointer to t.
func timePtr(t time.Time) *time.Time { return &t }

// ToQuote normalizes a raw Yahoo quote under the given symbol. The symbol is
// passed explicitly because adapters may canonicalize it away from Yahoo's
// provider-qualified form.
func (q *YahooQuote) ToQuote(symbol string) model.Quote {
	out := model.Quote{
		Symbol:        symbol,
		Price:         q.RegularMarketPrice,
		Timestamp:     unixTime(q.RegularMarketTime),
		Change:        q.RegularMarketChange,
		ChangePercent: q.RegularMarketChangePercent,
		DayHigh:       q.RegularMarketDayHigh,
		DayLow:        q.RegularMarketDayLow,
		Volume:        q.RegularMarketVolume,
		AverageVolume: q.AverageDailyVolume3Month,
		MarketCap:     q.MarketCap,
		Currency:      q.Currency,
		Exchange:      q.Exchange,
		ShortName:     q.ShortName,
		LongName:      q.LongName,
	}
	if out.Timestamp == nil && out.Price != nil {
		out.Timestamp = timePtr(time.Now().UTC())
	}
	return out
}

// ToQuote normalizes a raw TradingView quote under the given symbol.
func (q *TVQuote) ToQuote(symbol string) model.Quote {
	out := model.Quote{
		Symbol:        symbol,
		Price:         q.LastPrice(),
		ChangePercent: q.CHP,
		DayHigh:       q.High,
		DayLow:        q.Low,
		Volume:        q.Volume,
		MarketCap:     q.MarketCapBasic,
		ShortName:     q.ShortName,
		LongName:      q.Description,
	}
	// TradingView reports percent change only; derive the absolute change.
	if q.CHP != nil && out.Price != nil {
		out.Change = model.Float(*q.CHP / 100 * *out.Price)
	}
	if out.Price != nil {
		out.Timestamp = timePtr(time.Now().UTC())
	}
	return out
}

// ToQuote normalizes a raw CoinGecko market entry to its canonical symbol.
func (m *CoinMarket) ToQuote() model.Quote {
	out := model.Quote{
		Symbol:        CanonicalCryptoSymbol(m.Symbol),
		Price:         m.CurrentPrice,
		Change:        m.PriceChange24h,
		ChangePercent: m.PriceChangePercentage24h,
		DayHigh:       m.High24h,
		DayLow:        m.Low24h,
		Volume:        m.TotalVolume,
		MarketCap:     m.MarketCap,
		ShortName:     m.Name,
	}
	if m.LastUpdated != "" {
		if t, err := time.Parse(time.RFC3339, m.LastUpdated); err == nil {
			out.Timestamp = timePtr(t.UTC())
		}
	}
	if out.Timestamp == nil && out.Price != nil {
		out.Timestamp = timePtr(time.Now().UTC())
	}
	return out
}
