// Package provider implements the upstream quote source adapters.
//
// Each upstream (Yahoo Finance, TradingView, CoinGecko) gets a thin REST
// client; the Provider implementations on top normalize raw responses into
// model.Quote records and map bare dashboard symbols to provider-qualified
// ones (THYAO.IS, BTC-USD, BINANCE:BTCUSDT).
//
// Failure taxonomy:
//   - ErrNoData: the provider answered but had nothing usable for the symbol
//   - ErrTimeout: the call exceeded its deadline
//   - *APIError: transport, HTTP or parse failure
//
// A missing optional field never fails a quote; only a structurally invalid
// response or transport failure does.
package provider
