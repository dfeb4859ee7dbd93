package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestQuoteResolved(t *testing.T) {
	tests := []struct {
		name string
		q    Quote
		want bool
	}{
		{"resolved", Quote{Symbol: "THYAO.IS", Price: Float(100)}, true},
		{"failed", Failed("THYAO.IS", "no data"), false},
		{"empty", Quote{Symbol: "THYAO.IS"}, false},
		{"price and error", Quote{Symbol: "X", Price: Float(1), Error: "boom"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Resolved(); got != tt.want {
				t.Errorf("Resolved() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFailedQuoteJSON(t *testing.T) {
	q := Failed("ASELS.IS", "Veri yok")

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// A failed quote must serialize price and timestamp as explicit nulls
	// so file consumers can distinguish "failed" from "absent".
	s := string(data)
	if !strings.Contains(s, `"price":null`) {
		t.Errorf("missing null price: %s", s)
	}
	if !strings.Contains(s, `"timestamp":null`) {
		t.Errorf("missing null timestamp: %s", s)
	}
	if !strings.Contains(s, `"error":"Veri yok"`) {
		t.Errorf("missing error: %s", s)
	}
}

func TestMarketCapOrZero(t *testing.T) {
	if got := (Quote{}).MarketCapOrZero(); got != 0 {
		t.Errorf("MarketCapOrZero() = %v, want 0", got)
	}
	if got := (Quote{MarketCap: Float(2000)}).MarketCapOrZero(); got != 2000 {
		t.Errorf("MarketCapOrZero() = %v, want 2000", got)
	}
}

func TestCoinFromQuote(t *testing.T) {
	q := Quote{
		Symbol:        "BTC",
		Price:         Float(65000),
		ChangePercent: Float(2.5),
		Change:        Float(1600),
		DayHigh:       Float(66000),
		DayLow:        Float(64000),
		Volume:        Float(1e9),
		MarketCap:     Float(1.2e12),
		ShortName:     "Bitcoin",
	}

	c := CoinFromQuote(q, 1)

	if c.ID != "btc" {
		t.Errorf("ID = %q, want %q", c.ID, "btc")
	}
	if c.Symbol != "BTC" || c.Name != "Bitcoin" {
		t.Errorf("Symbol/Name = %q/%q", c.Symbol, c.Name)
	}
	if c.Price != 65000 || c.MarketCap != 1.2e12 || c.MarketCapRank != 1 {
		t.Errorf("unexpected projection: %+v", c)
	}
}

func TestCoinFromQuoteFailed(t *testing.T) {
	c := CoinFromQuote(Failed("DOGE", "timeout"), 7)

	if c.Error != "timeout" {
		t.Errorf("Error = %q, want %q", c.Error, "timeout")
	}
	if c.Price != 0 || c.MarketCap != 0 {
		t.Errorf("failed coin should zero out figures: %+v", c)
	}
	if c.Name != "DOGE" {
		t.Errorf("Name fallback = %q, want symbol", c.Name)
	}
}
