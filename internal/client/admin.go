package client

import (
	"context"

	"ignite/internal/api"
)

// AdminStats returns platform-wide aggregates. Requires an admin token.
func (c *Client) AdminStats(ctx context.Context) (api.AdminStats, error) {
	var resp api.AdminStats
	if err := c.getJSON(ctx, "api/admin/stats", nil, &resp); err != nil {
		return api.AdminStats{}, err
	}
	return resp, nil
}

// AdminRuns lists recent runs across all users. Requires an admin token.
func (c *Client) AdminRuns(ctx context.Context) ([]api.AdminRun, error) {
	var resp struct {
		Runs []api.AdminRun `json:"runs"`
	}
	if err := c.getJSON(ctx, "api/admin/runs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

// AdminRateLimits reports per-user rate limit consumption. Requires an admin
// token.
func (c *Client) AdminRateLimits(ctx context.Context) ([]api.RateLimitEntry, error) {
	var resp struct {
		Entries []api.RateLimitEntry `json:"entries"`
	}
	if err := c.getJSON(ctx, "api/admin/rate-limits", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// AdminMargins reports per-run cost and margin figures. Requires an admin
// token.
func (c *Client) AdminMargins(ctx context.Context) ([]api.MarginEntry, error) {
	var resp struct {
		Entries []api.MarginEntry `json:"entries"`
	}
	if err := c.getJSON(ctx, "api/admin/margins", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}
