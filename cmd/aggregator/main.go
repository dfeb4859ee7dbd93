package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oguzhankarahan/quoteboard/internal/aggregate"
	"github.com/oguzhankarahan/quoteboard/internal/aicoach"
	"github.com/oguzhankarahan/quoteboard/internal/config"
	"github.com/oguzhankarahan/quoteboard/internal/dataset"
	"github.com/oguzhankarahan/quoteboard/internal/livequote"
	"github.com/oguzhankarahan/quoteboard/internal/provider"
	"github.com/oguzhankarahan/quoteboard/internal/rates"
	"github.com/oguzhankarahan/quoteboard/internal/records"
	"github.com/oguzhankarahan/quoteboard/internal/refresh"
	"github.com/oguzhankarahan/quoteboard/internal/resolver"
	"github.com/oguzhankarahan/quoteboard/internal/snapshot"
	"github.com/oguzhankarahan/quoteboard/internal/stream"
	"github.com/oguzhankarahan/quoteboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/aggregator.local.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting aggregator",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Rebuild the logger at the configured level
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"port", cfg.Server.Port,
		"public_dir", cfg.Server.PublicDir,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Upstream clients
	yahoo := provider.NewYahooClient(
		cfg.Providers.Yahoo.BaseURL,
		provider.WithLogger(logger),
		provider.WithTimeout(cfg.Providers.Yahoo.Timeout.Std()),
		provider.WithRetries(cfg.Providers.Yahoo.MaxRetries, time.Second),
	)
	gecko := provider.NewCoinGeckoClient(
		cfg.Providers.CoinGecko.BaseURL,
		provider.WithLogger(logger),
		provider.WithTimeout(cfg.Providers.CoinGecko.Timeout.Std()),
		provider.WithRetries(cfg.Providers.CoinGecko.MaxRetries, time.Second),
	)

	// Capability-checked provider registry: a provider is registered at
	// startup or not at all, never probed per call.
	registry := resolver.NewRegistry(logger)
	registry.Register("stocks", provider.NewStockProvider(yahoo))
	registry.Register("crypto-yahoo", provider.NewCryptoYahooProvider(yahoo))
	if cfg.Providers.TradingView.BaseURL != "" {
		tv := provider.NewTradingViewClient(
			cfg.Providers.TradingView.BaseURL,
			provider.WithLogger(logger),
			provider.WithTimeout(cfg.Providers.TradingView.Timeout.Std()),
			provider.WithRetries(cfg.Providers.TradingView.MaxRetries, time.Second),
		)
		registry.Register("crypto-tv", provider.NewCryptoTVProvider(tv))
	}

	stockResolver := resolver.New(registry.Chain("stocks"), logger)
	cryptoResolver := resolver.New(registry.Chain("crypto-tv", "crypto-yahoo"), logger)
	liveResolver := resolver.New(registry.Chain("crypto-tv", "crypto-yahoo", "stocks"), logger)

	// Snapshot store writes into the public dir so the frontend reads the
	// files statically.
	store, err := snapshot.NewStore(cfg.Server.PublicDir, logger)
	if err != nil {
		logger.Error("failed to create snapshot store", "error", err)
		os.Exit(1)
	}

	stockAgg := aggregate.New(stockResolver, cfg.Aggregate.BatchSize, cfg.Aggregate.BatchDelay.Std(), logger)
	cryptoAgg := aggregate.New(cryptoResolver, cfg.Aggregate.BatchSize, cfg.Aggregate.BatchDelay.Std(), logger)

	converter := rates.NewConverter(gecko, cfg.Rates.FallbackUSDTRY, logger)

	// WebSocket hub: clients get a notification per completed pass and
	// refetch the snapshot file.
	hub := stream.NewHub(stream.DefaultHubConfig(), logger)
	announce := func(name string, task refresh.Task) refresh.Task {
		return func(ctx context.Context) error {
			if err := task(ctx); err != nil {
				return err
			}
			if env, ok := store.ReadExisting(name); ok {
				hub.Publish(map[string]any{
					"dataset":   name,
					"updatedAt": env.UpdatedAt,
				})
			}
			return nil
		}
	}

	loops := refresh.NewGroup(
		refresh.NewLoop(dataset.NameStocks, cfg.Refresh.Stocks.Std(),
			announce(dataset.NameStocks, dataset.Stocks(stockAgg, cfg.Universe.Stocks, store, logger)), logger),
		refresh.NewLoop(dataset.NameCoins, cfg.Refresh.CoinsUSD.Std(),
			announce(dataset.NameCoins, dataset.CoinsUSD(cryptoAgg, cfg.Universe.CuratedCoins, yahoo, gecko, cfg.Universe.PageSize, cfg.Universe.MaxPages, store, logger)), logger),
		refresh.NewLoop(dataset.NameCoinsTRY, cfg.Refresh.CoinsTRY.Std(),
			announce(dataset.NameCoinsTRY, dataset.CoinsTRY(cryptoAgg, gecko, cfg.Universe.PageSize, cfg.Universe.MaxPages, store, logger)), logger),
		refresh.NewLoop(dataset.NameMarketStats, cfg.Refresh.GlobalStats.Std(),
			announce(dataset.NameMarketStats, dataset.GlobalStats(gecko, converter, store, logger)), logger),
	)

	liveSvc := livequote.NewService(livequote.Config{
		TTL:       cfg.LiveQuote.TTL.Std(),
		Threshold: cfg.LiveQuote.BreakerThreshold,
		Cooldown:  cfg.LiveQuote.BreakerCooldown.Std(),
	}, liveResolver, logger)

	// HTTP surface
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quote/{symbol}", liveSvc.ServeQuote)
	mux.HandleFunc("GET /ws/quotes", hub.ServeWS)

	if cfg.AI.Endpoint != "" {
		proxy := aicoach.NewProxy(cfg.AI, logger)
		mux.HandleFunc("POST /api/ai/chat", proxy.ServeChat)
	}

	var pool *pgxpool.Pool
	if cfg.Records.Enabled {
		logger.Info("connecting to record store",
			"host", cfg.Records.Postgres.Host,
			"database", cfg.Records.Postgres.Name,
		)
		pool, err = records.Connect(ctx, cfg.Records.Postgres)
		if err != nil {
			logger.Error("failed to connect to record store", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		recStore := records.NewPGStore(pool)
		if err := recStore.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure records schema", "error", err)
			os.Exit(1)
		}
		records.NewHandler(recStore, logger).Mount(mux)
		logger.Info("record store connected")
	}

	mux.HandleFunc("GET /health", healthHandler(hub, pool))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.PublicDir)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loops (each runs its first pass immediately)
	if err := loops.Start(ctx); err != nil {
		logger.Error("failed to start refresh loops", "error", err)
		os.Exit(1)
	}

	logger.Info("aggregator running",
		"instance_id", cfg.Instance.ID,
		"quote_url", fmt.Sprintf("http://localhost:%d/api/quote/{symbol}", cfg.Server.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	loops.Stop(shutdownCtx)
	hub.Close()
	server.Shutdown(shutdownCtx)

	logger.Info("aggregator stopped")
}

// healthHandler reports process health: the HTTP path is alive by
// construction, so the interesting signals are the record store connection
// and stream fan-out.
func healthHandler(hub *stream.Hub, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Version    string         `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Version:    version.Version,
			Components: make(map[string]any),
		}

		health.Components["stream"] = map[string]any{
			"subscribers": hub.Subscribers(),
		}

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				health.Status = "degraded"
				health.Components["records"] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
			} else {
				health.Components["records"] = "connected"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	}
}

// parseLevel maps a config string to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
