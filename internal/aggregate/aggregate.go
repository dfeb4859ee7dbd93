package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oguzhankarahan/quoteboard/internal/model"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// Resolver resolves one symbol to a quote, falling back across providers.
// A failed resolution returns a Quote carrying an error, never a Go error.
type Resolver interface {
	Resolve(ctx context.Context, symbol string) (model.Quote, string)
}

// PageFunc fetches one page (1-based) of an open-ended universe. Pagination
// stops at the first empty page, short page, or error.
type PageFunc func(ctx context.Context, page int) ([]model.Quote, error)

// Aggregator fans a symbol universe out over a resolver in fixed-width
// batches. Batch width bounds concurrent upstream calls; the inter-batch
// delay keeps a pass from hammering a rate-limited provider.
type Aggregator struct {
	resolver   Resolver
	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
}

// New creates an aggregator. batchSize must be at least 1.
func New(resolver Resolver, batchSize int, batchDelay time.Duration, logger *slog.Logger) *Aggregator {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		resolver:   resolver,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
	}
}

// Fixed resolves a fixed enumerable universe. The result has exactly one
// entry per input symbol, in input order, each independently resolved or
// failed.
func (a *Aggregator) Fixed(ctx context.Context, symbols []string) []model.Quote {
	results := make([]model.Quote, len(symbols))

	for start := 0; start < len(symbols); start += a.batchSize {
		end := start + a.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				q, providerName := a.resolver.Resolve(gctx, symbols[i])
				if !q.Resolved() {
					a.logger.Warn("symbol failed",
						"symbol", symbols[i],
						"provider", providerName,
						"err", q.Error,
					)
				}
				results[i] = q
				return nil
			})
		}
		g.Wait()

		if end < len(symbols) && a.batchDelay > 0 {
			select {
			case <-ctx.Done():
				// Mark the rest failed so the pass still covers every symbol.
				for i := end; i < len(symbols); i++ {
					results[i] = model.Failed(symbols[i], ctx.Err().Error())
				}
				return results
			case <-time.After(a.batchDelay):
			}
		}
	}

	return results
}

// Paged walks an open-ended universe page by page. Termination: an empty
// page, a page shorter than pageSize, an error, or the maxPages bound.
// Entries collected before an error are kept.
func (a *Aggregator) Paged(ctx context.Context, pageSize, maxPages int, fetch PageFunc) []model.Quote {
	var all []model.Quote

	for page := 1; page <= maxPages; page++ {
		quotes, err := fetch(ctx, page)
		if err != nil {
			a.logger.Warn("page fetch failed, stopping pagination",
				"page", page,
				"collected", len(all),
				"err", err,
			)
			break
		}
		if len(quotes) == 0 {
			break
		}

		all = append(all, quotes...)

		if len(quotes) < pageSize {
			break
		}
	}

	return all
}

// Merge combines quote lists by canonical symbol, keeping the first-seen
// entry for each symbol and discarding later duplicates. Earlier lists take
// priority, so a curated list merged before a paginated catch-all wins.
func Merge(lists ...[]model.Quote) []model.Quote {
	var merged []model.Quote
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, q := range list {
			key := provider.CanonicalCryptoSymbol(q.Symbol)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, q)
		}
	}

	return merged
}

// SortByMarketCap orders quotes descending by market cap in place. Failed
// entries carry no market cap and sink to the bottom. The sort is stable so
// ties keep their merge order.
func SortByMarketCap(quotes []model.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].MarketCapOrZero() > quotes[j].MarketCapOrZero()
	})
}
