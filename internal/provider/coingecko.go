package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CoinGeckoClient provides access to the CoinGecko market data API.
type CoinGeckoClient struct {
	restClient
}

// NewCoinGeckoClient creates a new CoinGecko client.
func NewCoinGeckoClient(baseURL string, opts ...Option) *CoinGeckoClient {
	return &CoinGeckoClient{restClient: newRestClient("coingecko", baseURL, opts...)}
}

// CoinMarket is a raw entry from GET /coins/markets.
type CoinMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             *float64 `json:"current_price"`
	PriceChange24h           *float64 `json:"price_change_24h"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	High24h                  *float64 `json:"high_24h"`
	Low24h                   *float64 `json:"low_24h"`
	TotalVolume              *float64 `json:"total_volume"`
	MarketCap                *float64 `json:"market_cap"`
	LastUpdated              string   `json:"last_updated"`
}

// GlobalData is the payload of GET /global.
type GlobalData struct {
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies"`
}

type globalResponse struct {
	Data *GlobalData `json:"data"`
}

// Markets fetches one page of coin markets ordered by market cap.
func (c *CoinGeckoClient) Markets(ctx context.Context, vsCurrency string, perPage, page int) ([]CoinMarket, error) {
	query := url.Values{}
	query.Set("vs_currency", vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	var coins []CoinMarket
	if err := c.get(ctx, "/coins/markets", query, &coins); err != nil {
		return nil, fmt.Errorf("coin markets %s page %d: %w", vsCurrency, page, err)
	}

	return coins, nil
}

// Global fetches the global market aggregate.
func (c *CoinGeckoClient) Global(ctx context.Context) (*GlobalData, error) {
	var resp globalResponse
	if err := c.get(ctx, "/global", nil, &resp); err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("global stats: %w", ErrNoData)
	}

	return resp.Data, nil
}

// SimplePrice fetches conversion rates for the given coin IDs, keyed by
// coin ID then currency.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, ids, vsCurrencies []string) (map[string]map[string]float64, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", strings.Join(vsCurrencies, ","))

	var resp map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", query, &resp); err != nil {
		return nil, fmt.Errorf("simple price: %w", err)
	}

	return resp, nil
}
