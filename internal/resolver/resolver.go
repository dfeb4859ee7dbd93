package resolver

import (
	"context"
	"log/slog"

	"github.com/oguzhankarahan/quoteboard/internal/model"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// Resolver tries an ordered chain of providers for a symbol and returns the
// first successful quote.
type Resolver struct {
	providers []provider.Provider
	logger    *slog.Logger
}

// New creates a resolver over the given provider chain. Order is priority
// order; it is never reordered.
func New(providers []provider.Provider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve tries providers strictly in order and stops at the first success.
// Providers are never raced in parallel; each upstream has its own rate
// limits and a speculative second call would burn them for nothing.
//
// When every provider fails, the returned Quote is failed and carries the
// last provider's error message. Earlier errors are logged and discarded.
// The second return value names the provider that produced the result (the
// last one attempted, on total failure).
func (r *Resolver) Resolve(ctx context.Context, symbol string) (model.Quote, string) {
	var (
		lastErr  error
		lastName string
	)

	for _, p := range r.providers {
		q, err := p.Quote(ctx, symbol)
		if err == nil {
			return q, p.Name()
		}

		if lastErr != nil {
			r.logger.Debug("provider failed, falling back",
				"symbol", symbol,
				"provider", lastName,
				"err", lastErr,
			)
		}
		lastErr = err
		lastName = p.Name()
	}

	if lastErr == nil {
		// Empty chain: nothing was registered for this symbol class.
		return model.Failed(symbol, "no providers available"), ""
	}

	r.logger.Debug("all providers failed",
		"symbol", symbol,
		"last_provider", lastName,
		"err", lastErr,
	)
	return model.Failed(symbol, lastErr.Error()), lastName
}
