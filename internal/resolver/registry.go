package resolver

import (
	"log/slog"

	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// Registry holds the providers available in this process. Availability is
// decided once at startup (a provider without a configured endpoint is
// simply never registered), not per call.
type Registry struct {
	providers map[string]provider.Provider
	logger    *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		providers: make(map[string]provider.Provider),
		logger:    logger,
	}
}

// Register adds a provider under the given key. Keys are chain-local names
// such as "stock-yahoo" or "crypto-tv", distinct from Provider.Name().
func (r *Registry) Register(key string, p provider.Provider) {
	r.providers[key] = p
	r.logger.Info("provider registered", "key", key, "provider", p.Name())
}

// Registered reports whether a provider is available under the key.
func (r *Registry) Registered(key string) bool {
	_, ok := r.providers[key]
	return ok
}

// Chain assembles a priority-ordered provider chain from registered keys.
// Unregistered keys are skipped, so a chain degrades gracefully when an
// optional provider is absent.
func (r *Registry) Chain(keys ...string) []provider.Provider {
	chain := make([]provider.Provider, 0, len(keys))
	for _, key := range keys {
		p, ok := r.providers[key]
		if !ok {
			r.logger.Debug("provider not registered, skipping in chain", "key", key)
			continue
		}
		chain = append(chain, p)
	}
	return chain
}
