package provider

import (
	"testing"

	"github.com/oguzhankarahan/quoteboard/internal/model"
)

func TestCanonicalCryptoSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"BTCUSDT", "BTC"},
		{"BTC-USD", "BTC"},
		{"BINANCE:BTCUSDT", "BTC"},
		{"btc", "BTC"},
		{"  eth-usd ", "ETH"},
		{"SOL", "SOL"},
		{"USDT", ""}, // degenerate but deterministic
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalCryptoSymbol(tt.input); got != tt.want {
				t.Errorf("CanonicalCryptoSymbol(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsDelayedSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"THYAO.IS", true},
		{"BIST:THYAO", true},
		{"bist:thyao", true},
		{"BTC", false},
		{"BINANCE:BTCUSDT", false},
		{"BTC-USD", false},
	}

	for _, tt := range tests {
		if got := IsDelayedSymbol(tt.input); got != tt.want {
			t.Errorf("IsDelayedSymbol(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestYahooQuoteToQuote(t *testing.T) {
	ts := int64(1705321845)
	raw := YahooQuote{
		Symbol:                     "THYAO.IS",
		RegularMarketPrice:         model.Float(285.5),
		RegularMarketTime:          &ts,
		RegularMarketChange:        model.Float(3.25),
		RegularMarketChangePercent: model.Float(1.15),
		MarketCap:                  model.Float(4e11),
		Currency:                   "TRY",
		ShortName:                  "TURK HAVA YOLLARI",
	}

	q := raw.ToQuote("THYAO.IS")

	if !q.Resolved() {
		t.Fatal("quote should be resolved")
	}
	if *q.Price != 285.5 {
		t.Errorf("Price = %v, want 285.5", *q.Price)
	}
	if q.Timestamp == nil || q.Timestamp.Unix() != ts {
		t.Errorf("Timestamp = %v, want unix %d", q.Timestamp, ts)
	}
	if q.Currency != "TRY" || q.ShortName != "TURK HAVA YOLLARI" {
		t.Errorf("unexpected normalization: %+v", q)
	}
}

func TestYahooQuoteMissingOptionalFields(t *testing.T) {
	// Only a price: every other field absent. Must normalize, not fail.
	raw := YahooQuote{Symbol: "KAPLM.IS", RegularMarketPrice: model.Float(12.3)}

	q := raw.ToQuote("KAPLM.IS")

	if !q.Resolved() {
		t.Fatal("quote should be resolved")
	}
	if q.MarketCap != nil || q.Volume != nil || q.Change != nil {
		t.Errorf("missing fields should stay nil: %+v", q)
	}
	if q.Timestamp == nil {
		t.Error("resolved quote without provider time should default timestamp")
	}
}

func TestTVQuoteToQuote(t *testing.T) {
	raw := TVQuote{
		LP:             model.Float(65000),
		CHP:            model.Float(2.0),
		High:           model.Float(66000),
		Low:            model.Float(64000),
		MarketCapBasic: model.Float(1.2e12),
		ShortName:      "Bitcoin",
	}

	q := raw.ToQuote("BTC")

	if q.Symbol != "BTC" {
		t.Errorf("Symbol = %q, want BTC", q.Symbol)
	}
	// Absolute change derived from percent: 2% of 65000.
	if q.Change == nil || *q.Change != 1300 {
		t.Errorf("Change = %v, want 1300", q.Change)
	}
}

func TestTVQuotePriceFallback(t *testing.T) {
	raw := TVQuote{Price: model.Float(42)}
	if got := raw.LastPrice(); got == nil || *got != 42 {
		t.Errorf("LastPrice() = %v, want 42", got)
	}

	both := TVQuote{LP: model.Float(1), Price: model.Float(2)}
	if got := both.LastPrice(); *got != 1 {
		t.Errorf("LastPrice() = %v, want lp to win", *got)
	}
}

func TestCoinMarketToQuote(t *testing.T) {
	raw := CoinMarket{
		ID:                       "bitcoin",
		Symbol:                   "btc",
		Name:                     "Bitcoin",
		CurrentPrice:             model.Float(65000),
		PriceChangePercentage24h: model.Float(1.5),
		MarketCap:                model.Float(1.2e12),
		LastUpdated:              "2025-06-01T10:00:00Z",
	}

	q := raw.ToQuote()

	if q.Symbol != "BTC" {
		t.Errorf("Symbol = %q, want canonical BTC", q.Symbol)
	}
	if q.ShortName != "Bitcoin" {
		t.Errorf("ShortName = %q", q.ShortName)
	}
	if q.Timestamp == nil {
		t.Error("Timestamp should parse from last_updated")
	}
}
