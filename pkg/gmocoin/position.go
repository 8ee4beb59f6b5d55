package gmocoin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

func (c *Client) OpenPositions(ctx context.Context, symbol string, page Page) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	page.apply(params)

	return c.doRequest(ctx, privateGet("/v1/openPositions", params))
}

// PositionSummary returns the summary for one symbol, or all when symbol is "".
func (c *Client) PositionSummary(ctx context.Context, symbol string) (*Response, error) {
	params := url.Values{}
	setString(params, "symbol", symbol)

	return c.doRequest(ctx, privateGet("/v1/positionSummary", params))
}

// CloseOrder settles a single margin position.
func (c *Client) CloseOrder(ctx context.Context, p CloseOrderParams) (*Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	req, err := privateWithBody(http.MethodPost, "/v1/closeOrder", p)
	if err != nil {
		return nil, err
	}

	c.log.WithSymbol(p.Symbol).WithField("position_id", p.SettlePosition[0].PositionID).Debug("Закрытие позиции.")

	return c.doRequest(ctx, req)
}

// CloseBulkOrder settles positions of one symbol and side up to Size.
func (c *Client) CloseBulkOrder(ctx context.Context, p CloseBulkOrderParams) (*Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	req, err := privateWithBody(http.MethodPost, "/v1/closeBulkOrder", p)
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}

func (c *Client) ChangeLosscutPrice(ctx context.Context, positionID int64, losscutPrice decimal.Decimal) (*Response, error) {
	if positionID <= 0 {
		return nil, &ValidationError{Field: "positionId", Reason: "gt=0"}
	}
	if err := checkPositive("losscutPrice", losscutPrice); err != nil {
		return nil, err
	}

	req, err := privateWithBody(http.MethodPost, "/v1/changeLosscutPrice", changeLosscutBody{
		PositionID:   positionID,
		LosscutPrice: losscutPrice,
	})
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}
