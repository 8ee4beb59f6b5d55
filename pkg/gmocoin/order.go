package gmocoin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Orders looks up orders by id; the exchange accepts up to 10 ids per call.
func (c *Client) Orders(ctx context.Context, orderIDs ...int64) (*Response, error) {
	if len(orderIDs) == 0 {
		return nil, &ValidationError{Field: "orderId", Reason: "required"}
	}

	params := url.Values{}
	params.Set("orderId", joinIDs(orderIDs))

	return c.doRequest(ctx, privateGet("/v1/orders", params))
}

func (c *Client) ActiveOrders(ctx context.Context, symbol string, page Page) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	page.apply(params)

	return c.doRequest(ctx, privateGet("/v1/activeOrders", params))
}

// Executions looks up fills by order id or execution ids. Both filters are
// optional here; the exchange answers with an error status unless at least
// one is set. Several execution ids go out comma-joined (the exchange caps
// the list at 10).
func (c *Client) Executions(ctx context.Context, q ExecutionsQuery) (*Response, error) {
	params := url.Values{}
	setInt(params, "orderId", q.OrderID)
	if len(q.ExecutionIDs) > 0 {
		params.Set("executionId", joinIDs(q.ExecutionIDs))
	}

	return c.doRequest(ctx, privateGet("/v1/executions", params))
}

func (c *Client) LatestExecutions(ctx context.Context, symbol string, page Page) (*Response, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	page.apply(params)

	return c.doRequest(ctx, privateGet("/v1/latestExecutions", params))
}

func (c *Client) Order(ctx context.Context, p OrderParams) (*Response, error) {
	req, err := orderRequest(p)
	if err != nil {
		return nil, err
	}

	c.log.WithSymbol(p.Symbol).WithFields(map[string]interface{}{
		"side":           p.Side,
		"execution_type": p.ExecutionType,
		"size":           p.Size.String(),
	}).Debug("Размещение ордера.")

	return c.doRequest(ctx, req)
}

// BidLimitOrder places a LIMIT buy order.
func (c *Client) BidLimitOrder(ctx context.Context, symbol string, size, price decimal.Decimal) (*Response, error) {
	return c.Order(ctx, limitOrder(symbol, SideBuy, size, price))
}

// AskLimitOrder places a LIMIT sell order.
func (c *Client) AskLimitOrder(ctx context.Context, symbol string, size, price decimal.Decimal) (*Response, error) {
	return c.Order(ctx, limitOrder(symbol, SideSell, size, price))
}

func limitOrder(symbol string, side Side, size, price decimal.Decimal) OrderParams {
	return OrderParams{
		Symbol:        symbol,
		Side:          side,
		ExecutionType: ExecutionTypeLimit,
		Size:          size,
		Price:         &price,
	}
}

func orderRequest(p OrderParams) (Request, error) {
	if err := p.Validate(); err != nil {
		return Request{}, err
	}
	return privateWithBody(http.MethodPost, "/v1/order", p)
}

// ChangeOrder replaces the price of an active order; losscutPrice may be nil.
func (c *Client) ChangeOrder(ctx context.Context, orderID int64, price decimal.Decimal, losscutPrice *decimal.Decimal) (*Response, error) {
	if orderID <= 0 {
		return nil, &ValidationError{Field: "orderId", Reason: "gt=0"}
	}
	if err := checkPositive("price", price); err != nil {
		return nil, err
	}

	req, err := privateWithBody(http.MethodPost, "/v1/changeOrder", changeOrderBody{
		OrderID:      orderID,
		Price:        price,
		LosscutPrice: losscutPrice,
	})
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}

func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*Response, error) {
	if orderID <= 0 {
		return nil, &ValidationError{Field: "orderId", Reason: "gt=0"}
	}

	req, err := privateWithBody(http.MethodPost, "/v1/cancelOrder", cancelOrderBody{OrderID: orderID})
	if err != nil {
		return nil, err
	}

	c.log.WithOrderID(formatID(orderID)).Debug("Отмена ордера.")

	return c.doRequest(ctx, req)
}

func (c *Client) CancelOrders(ctx context.Context, orderIDs []int64) (*Response, error) {
	if len(orderIDs) == 0 {
		return nil, &ValidationError{Field: "orderIds", Reason: "min=1"}
	}

	req, err := privateWithBody(http.MethodPost, "/v1/cancelOrders", cancelOrdersBody{OrderIDs: orderIDs})
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}

func (c *Client) CancelBulkOrder(ctx context.Context, p CancelBulkParams) (*Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	req, err := privateWithBody(http.MethodPost, "/v1/cancelBulkOrder", p)
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}

func formatID(id int64) string {
	return joinIDs([]int64{id})
}
