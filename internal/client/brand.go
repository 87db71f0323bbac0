package client

import (
	"context"

	"ignite/internal/api"
)

// Brand fetches the caller's stored brand kit.
func (c *Client) Brand(ctx context.Context) (api.BrandConfig, error) {
	var resp api.BrandConfig
	if err := c.getJSON(ctx, "api/brand", nil, &resp); err != nil {
		return api.BrandConfig{}, err
	}
	return resp, nil
}

// UpdateBrand replaces the caller's brand kit.
func (c *Client) UpdateBrand(ctx context.Context, brand api.BrandConfig) (api.BrandConfig, error) {
	var resp api.BrandConfig
	if err := c.postJSON(ctx, "api/brand", brand, &resp); err != nil {
		return api.BrandConfig{}, err
	}
	return resp, nil
}
