package provider

import (
	"context"
	"fmt"
	"net/url"
)

// TradingViewClient provides access to a TradingView-compatible quote
// gateway. There is no public default endpoint; the client is only
// registered when a gateway URL is configured.
type TradingViewClient struct {
	restClient
}

// NewTradingViewClient creates a new TradingView gateway client.
func NewTradingViewClient(baseURL string, opts ...Option) *TradingViewClient {
	return &TradingViewClient{restClient: newRestClient("tradingview", baseURL, opts...)}
}

// TVQuote is a raw quote from the TradingView gateway. Field names follow
// TradingView's wire protocol (lp = last price, chp = change percent).
type TVQuote struct {
	LP             *float64 `json:"lp"`
	Price          *float64 `json:"price"` // some gateways use "price" instead of "lp"
	CHP            *float64 `json:"chp"`
	High           *float64 `json:"high"`
	Low            *float64 `json:"low"`
	Volume         *float64 `json:"volume"`
	MarketCapBasic *float64 `json:"market_cap_basic"`
	ShortName      string   `json:"short_name"`
	Description    string   `json:"description"`
}

// LastPrice returns lp, falling back to price, or nil when neither is set.
func (q *TVQuote) LastPrice() *float64 {
	if q.LP != nil {
		return q.LP
	}
	return q.Price
}

// GetQuote fetches a single raw quote by exchange-qualified symbol
// (e.g. "BINANCE:BTCUSDT").
func (c *TradingViewClient) GetQuote(ctx context.Context, symbol string) (*TVQuote, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var resp TVQuote
	if err := c.get(ctx, "/quote", query, &resp); err != nil {
		return nil, fmt.Errorf("get quote %s: %w", symbol, err)
	}

	if resp.LastPrice() == nil {
		return nil, fmt.Errorf("get quote %s: %w", symbol, ErrNoData)
	}

	return &resp, nil
}
