package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/oguzhankarahan/quoteboard/internal/model"
)

// StockProvider resolves exchange-listed equity tickers through the Yahoo
// quote API. Symbols are passed through untouched (e.g. "THYAO.IS").
type StockProvider struct {
	client *YahooClient
}

// NewStockProvider wraps a Yahoo client as an equity quote provider.
func NewStockProvider(client *YahooClient) *StockProvider {
	return &StockProvider{client: client}
}

func (p *StockProvider) Name() string { return "yahoo" }

func (p *StockProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	raw, err := p.client.GetQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}
	if raw.RegularMarketPrice == nil {
		return model.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}
	q := raw.ToQuote(symbol)
	if q.Currency == "" {
		q.Currency = "TRY"
	}
	return q, nil
}

// CryptoYahooProvider resolves bare crypto symbols ("BTC") through Yahoo's
// USD pairs ("BTC-USD"). Quotes come back under the canonical symbol.
type CryptoYahooProvider struct {
	client *YahooClient
}

// NewCryptoYahooProvider wraps a Yahoo client as a crypto quote provider.
func NewCryptoYahooProvider(client *YahooClient) *CryptoYahooProvider {
	return &CryptoYahooProvider{client: client}
}

func (p *CryptoYahooProvider) Name() string { return "yahoo" }

func (p *CryptoYahooProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	pair := symbol
	if !strings.HasSuffix(strings.ToUpper(pair), "-USD") {
		pair = CanonicalCryptoSymbol(symbol) + "-USD"
	}

	raw, err := p.client.GetQuote(ctx, pair)
	if err != nil {
		return model.Quote{}, err
	}
	if raw.RegularMarketPrice == nil {
		return model.Quote{}, fmt.Errorf("quote %s: %w", pair, ErrNoData)
	}
	q := raw.ToQuote(CanonicalCryptoSymbol(symbol))
	if q.Currency == "" {
		q.Currency = "USD"
	}
	return q, nil
}

// CryptoTVProvider resolves bare crypto symbols through a TradingView
// gateway using exchange-qualified pairs ("BINANCE:BTCUSDT"). Symbols that
// already carry an exchange prefix are passed through.
type CryptoTVProvider struct {
	client *TradingViewClient
}

// NewCryptoTVProvider wraps a TradingView client as a crypto quote provider.
func NewCryptoTVProvider(client *TradingViewClient) *CryptoTVProvider {
	return &CryptoTVProvider{client: client}
}

func (p *CryptoTVProvider) Name() string { return "tradingview" }

func (p *CryptoTVProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	pair := symbol
	if !strings.Contains(pair, ":") {
		pair = "BINANCE:" + CanonicalCryptoSymbol(symbol) + "USDT"
	}

	raw, err := p.client.GetQuote(ctx, pair)
	if err != nil {
		return model.Quote{}, err
	}
	q := raw.ToQuote(CanonicalCryptoSymbol(symbol))
	q.Currency = "USD"
	return q, nil
}
