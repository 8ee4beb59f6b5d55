package gmocoin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicEndpointURLs(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		call func(c *Client) (*Response, error)
		want string
	}{
		{"status", func(c *Client) (*Response, error) { return c.Status(ctx) }, "https://api.coin.z.com/public/v1/status"},
		{"ticker without symbol", func(c *Client) (*Response, error) { return c.Ticker(ctx, "") }, "https://api.coin.z.com/public/v1/ticker"},
		{"ticker with symbol", func(c *Client) (*Response, error) { return c.Ticker(ctx, "BTC") }, "https://api.coin.z.com/public/v1/ticker?symbol=BTC"},
		{"order books", func(c *Client) (*Response, error) { return c.OrderBooks(ctx, "BTC_JPY") }, "https://api.coin.z.com/public/v1/orderbooks?symbol=BTC_JPY"},
		{"trades", func(c *Client) (*Response, error) { return c.Trades(ctx, "BTC", Page{}) }, "https://api.coin.z.com/public/v1/trades?symbol=BTC"},
		{"trades paged", func(c *Client) (*Response, error) { return c.Trades(ctx, "BTC", Page{Page: 3, Count: 50}) }, "https://api.coin.z.com/public/v1/trades?count=50&page=3&symbol=BTC"},
		{"klines", func(c *Client) (*Response, error) { return c.Klines(ctx, "BTC", Interval1Min, "20210417") }, "https://api.coin.z.com/public/v1/klines?date=20210417&interval=1min&symbol=BTC"},
		{"symbols", func(c *Client) (*Response, error) { return c.Symbols(ctx) }, "https://api.coin.z.com/public/v1/symbols"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newRecordingClient("", "")

			resp, err := tc.call(c)
			require.NoError(t, err)
			assert.Equal(t, 0, resp.Status)

			req, _ := rec.last()
			require.NotNil(t, req)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tc.want, req.URL.String())
			assert.Empty(t, req.Header.Get(HeaderAPISign))
		})
	}
}

func TestTickerOmitsEmptyQuery(t *testing.T) {
	c, rec := newRecordingClient("", "")

	_, err := c.Ticker(context.Background(), "")
	require.NoError(t, err)

	req, _ := rec.last()
	assert.Equal(t, "/public/v1/ticker", req.URL.Path)
	assert.Empty(t, req.URL.RawQuery)
}

func TestRequestURL(t *testing.T) {
	r := publicGet("/v1/orderbooks", map[string][]string{"symbol": {"BTC_JPY"}})
	assert.Equal(t, "https://api.coin.z.com/public/v1/orderbooks?symbol=BTC_JPY", r.URL(DefaultPublicURL))

	r = publicGet("/v1/status", nil)
	assert.Equal(t, "https://api.coin.z.com/public/v1/status", r.URL(DefaultPublicURL))
}
