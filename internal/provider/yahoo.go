package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// YahooClient provides access to the Yahoo Finance quote and screener APIs.
type YahooClient struct {
	restClient
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(baseURL string, opts ...Option) *YahooClient {
	return &YahooClient{restClient: newRestClient("yahoo", baseURL, opts...)}
}

// YahooQuote is a raw quote from the Yahoo Finance API. All market figures
// are pointers: a missing optional field decodes to nil, never an error.
type YahooQuote struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketTime          *int64   `json:"regularMarketTime"` // epoch seconds
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	AverageDailyVolume3Month   *float64 `json:"averageDailyVolume3Month"`
	MarketCap                  *float64 `json:"marketCap"`
	Currency                   string   `json:"currency"`
	Exchange                   string   `json:"exchange"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// quoteResponse from GET /v7/finance/quote
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []YahooQuote `json:"result"`
		Error  *yahooError  `json:"error"`
	} `json:"quoteResponse"`
}

// screenerResponse from GET /v1/finance/screener/predefined/saved
type yahooScreenerResponse struct {
	Finance struct {
		Result []struct {
			Quotes []YahooQuote `json:"quotes"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"finance"`
}

// GetQuote fetches a single raw quote by provider-qualified symbol.
func (c *YahooClient) GetQuote(ctx context.Context, symbol string) (*YahooQuote, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	var resp yahooQuoteResponse
	if err := c.get(ctx, "/v7/finance/quote", query, &resp); err != nil {
		return nil, fmt.Errorf("get quote %s: %w", symbol, err)
	}

	if resp.QuoteResponse.Error != nil {
		return nil, &APIError{
			Provider: c.name,
			Message:  fmt.Sprintf("%s: %s", resp.QuoteResponse.Error.Code, resp.QuoteResponse.Error.Description),
		}
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("get quote %s: %w", symbol, ErrNoData)
	}

	return &resp.QuoteResponse.Result[0], nil
}

// Screener fetches one page of a predefined screener (e.g.
// "all_cryptocurrencies_us"). Returns the raw quotes; an empty page signals
// the end of the universe.
func (c *YahooClient) Screener(ctx context.Context, scrID string, count, offset int) ([]YahooQuote, error) {
	query := url.Values{}
	query.Set("scrIds", scrID)
	query.Set("count", strconv.Itoa(count))
	query.Set("offset", strconv.Itoa(offset))

	var resp yahooScreenerResponse
	if err := c.get(ctx, "/v1/finance/screener/predefined/saved", query, &resp); err != nil {
		return nil, fmt.Errorf("screener %s offset %d: %w", scrID, offset, err)
	}

	if resp.Finance.Error != nil {
		return nil, &APIError{
			Provider: c.name,
			Message:  fmt.Sprintf("%s: %s", resp.Finance.Error.Code, resp.Finance.Error.Description),
		}
	}
	if len(resp.Finance.Result) == 0 {
		return nil, nil
	}

	return resp.Finance.Result[0].Quotes, nil
}
