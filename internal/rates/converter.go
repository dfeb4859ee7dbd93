package rates

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// RateSource fetches conversion rates keyed by coin ID then currency.
// *provider.CoinGeckoClient satisfies this.
type RateSource interface {
	SimplePrice(ctx context.Context, ids, vsCurrencies []string) (map[string]map[string]float64, error)
}

// The TRY rate rides on a USD stablecoin's market quote rather than a
// dedicated forex feed.
const proxyCoinID = "usd-coin"

// Converter resolves the USD/TRY rate with graceful degradation: a live
// lookup, then the last value that succeeded, then a static fallback.
type Converter struct {
	source   RateSource
	fallback decimal.Decimal
	logger   *slog.Logger

	mu        sync.Mutex
	lastKnown decimal.Decimal
}

// NewConverter creates a converter. fallback is the static rate used before
// the first successful lookup.
func NewConverter(source RateSource, fallback float64, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		source:   source,
		fallback: decimal.NewFromFloat(fallback),
		logger:   logger,
	}
}

// USDTRY returns the USD/TRY rate. It never fails: lookup errors degrade to
// the last known rate, then to the static fallback.
func (c *Converter) USDTRY(ctx context.Context) decimal.Decimal {
	rate, err := c.fetch(ctx)
	if err == nil {
		c.mu.Lock()
		c.lastKnown = rate
		c.mu.Unlock()
		return rate
	}

	c.mu.Lock()
	last := c.lastKnown
	c.mu.Unlock()

	if !last.IsZero() {
		c.logger.Warn("rate lookup failed, using last known rate",
			"rate", last,
			"err", err,
		)
		return last
	}

	c.logger.Warn("rate lookup failed, using static fallback",
		"rate", c.fallback,
		"err", err,
	)
	return c.fallback
}

func (c *Converter) fetch(ctx context.Context) (decimal.Decimal, error) {
	prices, err := c.source.SimplePrice(ctx, []string{proxyCoinID}, []string{"try"})
	if err != nil {
		return decimal.Zero, err
	}

	v, ok := prices[proxyCoinID]["try"]
	if !ok || v <= 0 {
		return decimal.Zero, fmt.Errorf("rate %s/try: %w", proxyCoinID, provider.ErrNoData)
	}

	return decimal.NewFromFloat(v), nil
}
