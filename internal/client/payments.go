package client

import (
	"context"
	"errors"
	"strings"

	"ignite/internal/api"
)

// Credits returns the caller's current credit balance.
func (c *Client) Credits(ctx context.Context) (int, error) {
	var resp api.CreditsResponse
	if err := c.getJSON(ctx, "api/payments/credits", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Credits, nil
}

// CreateOrder opens a checkout order for the named credit tier.
func (c *Client) CreateOrder(ctx context.Context, tier string) (api.Order, error) {
	if strings.TrimSpace(tier) == "" {
		return api.Order{}, errors.New("client: tier is required")
	}
	var resp api.Order
	if err := c.postJSON(ctx, "api/payments/create-order", api.CreateOrderRequest{Tier: tier}, &resp); err != nil {
		return api.Order{}, err
	}
	if resp.ID == "" {
		return api.Order{}, errors.New("client: order response missing id")
	}
	return resp, nil
}

// VerifyPayment confirms a completed checkout and credits the account.
func (c *Client) VerifyPayment(ctx context.Context, req api.VerifyPaymentRequest) (api.VerifyPaymentResponse, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return api.VerifyPaymentResponse{}, errors.New("client: order id, payment id, and signature are required")
	}
	var resp api.VerifyPaymentResponse
	if err := c.postJSON(ctx, "api/payments/verify", req, &resp); err != nil {
		return api.VerifyPaymentResponse{}, err
	}
	return resp, nil
}
