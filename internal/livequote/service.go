package livequote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oguzhankarahan/quoteboard/internal/model"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
)

// ErrRateLimited means the breaker is open and no cached data exists.
var ErrRateLimited = errors.New("livequote: rate limited, no cached data")

// ErrUnavailable means the live fetch failed and no cached data exists.
var ErrUnavailable = errors.New("livequote: upstream failure, no cached data")

// Resolver resolves one symbol through a fallback chain. A failed resolution
// returns a Quote carrying an error, never a Go error.
type Resolver interface {
	Resolve(ctx context.Context, symbol string) (model.Quote, string)
}

// Payload is the response shape for one live quote.
type Payload struct {
	model.Quote
	Provider  string `json:"provider"`
	IsDelayed bool   `json:"isDelayed"`
}

// CacheEntry is one cached live quote.
type CacheEntry struct {
	Quote      model.Quote
	Provider   string
	CapturedAt time.Time
}

type failureCounter struct {
	count       int
	lastErrorAt time.Time
}

// Config bounds the cache and breaker behavior.
type Config struct {
	TTL       time.Duration // Cache freshness window
	Threshold int           // Failures beyond which the breaker opens
	Cooldown  time.Duration // How long an open breaker suppresses calls
}

// DefaultConfig returns the production cache/breaker parameters.
func DefaultConfig() Config {
	return Config{
		TTL:       30 * time.Second,
		Threshold: 3,
		Cooldown:  60 * time.Second,
	}
}

// Service owns the live quote cache and breaker state. All state is explicit
// and injected so the request path stays testable; nothing is ambient.
type Service struct {
	cfg      Config
	resolver Resolver
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	cache    map[string]CacheEntry
	failures map[string]failureCounter
}

// NewService creates a live quote service over the given resolver chain.
func NewService(cfg Config, resolver Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
		cache:    make(map[string]CacheEntry),
		failures: make(map[string]failureCounter),
	}
}

// Get returns a quote for the symbol: fresh cache first, then an upstream
// fetch, then stale cache as a degraded fallback. Errors are ErrRateLimited
// or ErrUnavailable; real data is never substituted with zeros.
//
// Two near-simultaneous requests for the same uncached symbol may both pass
// the freshness check and both call upstream. That small duplicate burst is
// accepted instead of holding a per-symbol in-flight lock.
func (s *Service) Get(ctx context.Context, symbol string) (Payload, error) {
	now := s.now()

	s.mu.Lock()
	entry, cached := s.cache[symbol]
	if cached && now.Sub(entry.CapturedAt) < s.cfg.TTL {
		s.mu.Unlock()
		return s.payload(entry), nil
	}
	f := s.failures[symbol]
	open := f.count > s.cfg.Threshold && now.Sub(f.lastErrorAt) < s.cfg.Cooldown
	s.mu.Unlock()

	if open {
		if cached {
			s.logger.Debug("breaker open, serving stale quote",
				"symbol", symbol,
				"age", now.Sub(entry.CapturedAt),
			)
			return s.payload(entry), nil
		}
		return Payload{}, ErrRateLimited
	}

	q, providerName := s.resolver.Resolve(ctx, symbol)
	if q.Resolved() {
		fresh := CacheEntry{Quote: q, Provider: providerName, CapturedAt: s.now()}
		s.mu.Lock()
		delete(s.failures, symbol)
		s.cache[symbol] = fresh
		s.mu.Unlock()
		return s.payload(fresh), nil
	}

	s.mu.Lock()
	f = s.failures[symbol]
	f.count++
	f.lastErrorAt = s.now()
	s.failures[symbol] = f
	count := f.count
	s.mu.Unlock()

	s.logger.Warn("live fetch failed",
		"symbol", symbol,
		"failures", count,
		"err", q.Error,
	)

	if cached {
		return s.payload(entry), nil
	}
	return Payload{}, fmt.Errorf("%w: %s", ErrUnavailable, q.Error)
}

func (s *Service) payload(e CacheEntry) Payload {
	return Payload{
		Quote:     e.Quote,
		Provider:  e.Provider,
		IsDelayed: provider.IsDelayedSymbol(e.Quote.Symbol),
	}
}
