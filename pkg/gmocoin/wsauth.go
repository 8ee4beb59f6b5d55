package gmocoin

import (
	"context"
	"net/http"
)

// CreateWSToken issues an access token for the private WebSocket API.
// The token is the string in Response.Data; it lives for 60 minutes.
func (c *Client) CreateWSToken(ctx context.Context) (*Response, error) {
	return c.wsToken(ctx, http.MethodPost, "")
}

// ExtendWSToken resets the token lifetime to 60 minutes.
func (c *Client) ExtendWSToken(ctx context.Context, token string) (*Response, error) {
	if token == "" {
		return nil, &ValidationError{Field: "token", Reason: "required"}
	}
	return c.wsToken(ctx, http.MethodPut, token)
}

func (c *Client) DeleteWSToken(ctx context.Context, token string) (*Response, error) {
	if token == "" {
		return nil, &ValidationError{Field: "token", Reason: "required"}
	}
	return c.wsToken(ctx, http.MethodDelete, token)
}

func (c *Client) wsToken(ctx context.Context, method, token string) (*Response, error) {
	req, err := privateWithBody(method, "/v1/ws-auth", wsTokenBody{Token: token})
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, req)
}
