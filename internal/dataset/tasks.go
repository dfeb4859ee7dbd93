package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oguzhankarahan/quoteboard/internal/aggregate"
	"github.com/oguzhankarahan/quoteboard/internal/model"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
	"github.com/oguzhankarahan/quoteboard/internal/rates"
	"github.com/oguzhankarahan/quoteboard/internal/refresh"
	"github.com/oguzhankarahan/quoteboard/internal/snapshot"
)

// Dataset file names. Each refresh loop owns exactly one.
const (
	NameStocks      = "stocks"
	NameCoins       = "coins"
	NameCoinsTRY    = "coins_try"
	NameMarketStats = "market-stats"
)

// MarketSource is the paged market listing used for the coin datasets.
// *provider.CoinGeckoClient satisfies this.
type MarketSource interface {
	Markets(ctx context.Context, vsCurrency string, perPage, page int) ([]provider.CoinMarket, error)
	Global(ctx context.Context) (*provider.GlobalData, error)
}

// ScreenerSource is the predefined-screener catch-all merged in behind the
// curated chain for the USD coin pass. *provider.YahooClient satisfies this.
type ScreenerSource interface {
	Screener(ctx context.Context, scrID string, count, offset int) ([]provider.YahooQuote, error)
}

// screenerAllCryptos is the predefined screener covering the full crypto
// universe.
const screenerAllCryptos = "all_cryptocurrencies_us"

// Stocks builds the fixed-universe equity pass. A pass with zero resolved
// symbols carries the previous snapshot over instead of wiping it.
func Stocks(agg *aggregate.Aggregator, symbols []string, store *snapshot.Store, logger *slog.Logger) refresh.Task {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		quotes := agg.Fixed(ctx, symbols)

		if countResolved(quotes) == 0 {
			return carryOver(store, NameStocks, "no symbols resolved")
		}

		if err := store.WriteFresh(NameStocks, quotes); err != nil {
			return fmt.Errorf("write %s: %w", NameStocks, err)
		}

		rows := [][]string{{"SYMBOL", "PRICE", "TIMESTAMP", "ERROR"}}
		for _, q := range quotes {
			rows = append(rows, []string{q.Symbol, formatPrice(q.Price), formatTime(q.Timestamp), q.Error})
		}
		if err := store.WriteTable(NameStocks, rows); err != nil {
			return fmt.Errorf("write %s table: %w", NameStocks, err)
		}

		logger.Debug("stocks pass persisted",
			"symbols", len(quotes),
			"resolved", countResolved(quotes),
		)
		return nil
	}
}

// CoinsUSD builds the USD coin pass: a curated high-priority list resolved
// through the fallback chain, a paged screener sweep behind it, and the
// market listing as final catch-all, merged and ranked by market cap.
func CoinsUSD(agg *aggregate.Aggregator, curated []string, screener ScreenerSource, source MarketSource, pageSize, maxPages int, store *snapshot.Store, logger *slog.Logger) refresh.Task {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		curatedQuotes := agg.Fixed(ctx, curated)
		screened := agg.Paged(ctx, pageSize, maxPages, screenerPage(screener, pageSize))
		paged := agg.Paged(ctx, pageSize, maxPages, marketsPage(source, "usd", pageSize))

		merged := aggregate.Merge(curatedQuotes, screened, paged)
		aggregate.SortByMarketCap(merged)

		if countResolved(merged) == 0 {
			return carryOver(store, NameCoins, "no coins resolved")
		}

		coins := make([]model.Coin, 0, len(merged))
		for i, q := range merged {
			coins = append(coins, model.CoinFromQuote(q, i+1))
		}

		if err := store.WriteFresh(NameCoins, coins); err != nil {
			return fmt.Errorf("write %s: %w", NameCoins, err)
		}

		rows := [][]string{{"ID", "SYMBOL", "NAME", "PRICE", "CHANGE_24H%", "VOLUME"}}
		for _, c := range coins {
			rows = append(rows, []string{
				c.ID,
				c.Symbol,
				c.Name,
				formatFloat(c.Price),
				formatFloat(c.ChangePercent24h),
				formatFloat(c.Volume),
			})
		}
		if err := store.WriteTable(NameCoins, rows); err != nil {
			return fmt.Errorf("write %s table: %w", NameCoins, err)
		}

		logger.Debug("coins pass persisted",
			"curated", len(curatedQuotes),
			"screened", len(screened),
			"paged", len(paged),
			"merged", len(merged),
		)
		return nil
	}
}

// CoinsTRY builds the TRY-denominated coin pass from the paged market
// listing alone.
func CoinsTRY(agg *aggregate.Aggregator, source MarketSource, pageSize, maxPages int, store *snapshot.Store, logger *slog.Logger) refresh.Task {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		paged := agg.Paged(ctx, pageSize, maxPages, marketsPage(source, "try", pageSize))
		aggregate.SortByMarketCap(paged)

		if countResolved(paged) == 0 {
			return carryOver(store, NameCoinsTRY, "no coins resolved")
		}

		coins := make([]model.Coin, 0, len(paged))
		for i, q := range paged {
			coins = append(coins, model.CoinFromQuote(q, i+1))
		}

		if err := store.WriteFresh(NameCoinsTRY, coins); err != nil {
			return fmt.Errorf("write %s: %w", NameCoinsTRY, err)
		}
		return nil
	}
}

// GlobalStats builds the global market aggregate pass, converting USD
// figures to TRY through the rate converter.
func GlobalStats(source MarketSource, converter *rates.Converter, store *snapshot.Store, logger *slog.Logger) refresh.Task {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		global, err := source.Global(ctx)
		if err != nil {
			return carryOver(store, NameMarketStats, err.Error())
		}

		rate := converter.USDTRY(ctx)
		rateF := rate.InexactFloat64()

		capUSD := global.TotalMarketCap["usd"]
		volUSD := global.TotalVolume["usd"]

		stats := model.MarketStats{
			USDTRYRate: rateF,
			TotalMarketCap: model.CurrencyPair{
				USD:       capUSD,
				TRY:       mulRate(capUSD, rate),
				Change24h: global.MarketCapChangePercentage24hUSD,
			},
			TotalVolume: model.CurrencyPair{
				USD: volUSD,
				TRY: mulRate(volUSD, rate),
			},
			BTCDominance: global.MarketCapPercentage["btc"],
			ActiveCoins:  global.ActiveCryptocurrencies,
		}

		if err := store.WriteFresh(NameMarketStats, stats); err != nil {
			return fmt.Errorf("write %s: %w", NameMarketStats, err)
		}

		logger.Debug("market stats persisted",
			"usd_try", rateF,
			"btc_dominance", stats.BTCDominance,
		)
		return nil
	}
}

// screenerPage adapts the predefined screener into an aggregator page
// source. Screener offsets are row-based, so page N starts at (N-1)*pageSize.
func screenerPage(source ScreenerSource, pageSize int) aggregate.PageFunc {
	return func(ctx context.Context, page int) ([]model.Quote, error) {
		raw, err := source.Screener(ctx, screenerAllCryptos, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, err
		}
		quotes := make([]model.Quote, 0, len(raw))
		for i := range raw {
			quotes = append(quotes, raw[i].ToQuote(provider.CanonicalCryptoSymbol(raw[i].Symbol)))
		}
		return quotes, nil
	}
}

// marketsPage adapts the market listing into an aggregator page source.
func marketsPage(source MarketSource, vsCurrency string, pageSize int) aggregate.PageFunc {
	return func(ctx context.Context, page int) ([]model.Quote, error) {
		markets, err := source.Markets(ctx, vsCurrency, pageSize, page)
		if err != nil {
			return nil, err
		}
		quotes := make([]model.Quote, 0, len(markets))
		for i := range markets {
			quotes = append(quotes, markets[i].ToQuote())
		}
		return quotes, nil
	}
}

// carryOver annotates the previous snapshot and reports the pass failure.
func carryOver(store *snapshot.Store, dataset, reason string) error {
	if _, err := store.CarryOver(dataset, reason); err != nil {
		return fmt.Errorf("carry over %s: %w", dataset, err)
	}
	return fmt.Errorf("pass produced no data: %s", reason)
}

// mulRate converts a USD figure to TRY without accumulating float error in
// the large market-cap magnitudes.
func mulRate(usd float64, rate decimal.Decimal) float64 {
	return decimal.NewFromFloat(usd).Mul(rate).InexactFloat64()
}

func countResolved(quotes []model.Quote) int {
	n := 0
	for _, q := range quotes {
		if q.Resolved() {
			n++
		}
	}
	return n
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
