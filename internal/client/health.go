package client

import (
	"context"

	"ignite/internal/api"
)

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.getJSON(ctx, "health", nil, &resp); err != nil {
		return api.HealthResponse{}, err
	}
	return resp, nil
}
