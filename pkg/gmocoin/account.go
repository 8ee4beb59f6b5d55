package gmocoin

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

func (c *Client) Margin(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, privateGet("/v1/account/margin", nil))
}

func (c *Client) Assets(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, privateGet("/v1/account/assets", nil))
}

func (c *Client) TradingVolume(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, privateGet("/v1/account/tradingVolume", nil))
}

// AccountTransfer moves JPY between the spot and margin accounts.
func (c *Client) AccountTransfer(ctx context.Context, amount decimal.Decimal, transferType TransferType) (*Response, error) {
	if err := checkPositive("amount", amount); err != nil {
		return nil, err
	}
	if transferType != TransferTypeDeposit && transferType != TransferTypeWithdrawal {
		return nil, &ValidationError{Field: "transferType", Reason: "oneof=DEPOSIT WITHDRAWAL"}
	}

	req, err := privateWithBody(http.MethodPost, "/v1/account/transfer", transferBody{
		Amount:       amount,
		TransferType: transferType,
	})
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, req)
}
