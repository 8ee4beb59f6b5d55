package gmocoin

import (
	"context"
	"net/url"
)

func (c *Client) Status(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, publicGet("/v1/status", nil))
}

// Ticker returns the ticker of one symbol, or of all symbols when symbol is "".
func (c *Client) Ticker(ctx context.Context, symbol string) (*Response, error) {
	params := url.Values{}
	setString(params, "symbol", symbol)

	return c.doRequest(ctx, publicGet("/v1/ticker", params))
}

func (c *Client) OrderBooks(ctx context.Context, symbol string) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	return c.doRequest(ctx, publicGet("/v1/orderbooks", params))
}

func (c *Client) Trades(ctx context.Context, symbol string, page Page) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	page.apply(params)

	return c.doRequest(ctx, publicGet("/v1/trades", params))
}

// Klines returns candles; date is YYYYMMDD for intraday intervals and YYYY
// for 4hour and longer.
func (c *Client) Klines(ctx context.Context, symbol string, interval Interval, date string) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", string(interval))
	params.Set("date", date)

	return c.doRequest(ctx, publicGet("/v1/klines", params))
}

func (c *Client) Symbols(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, publicGet("/v1/symbols", nil))
}
