package client

import (
	"context"
	"net/url"
	"strconv"

	"ignite/internal/api"
)

// History returns the caller's recent runs, newest first. A limit of zero
// leaves the page size to the server.
func (c *Client) History(ctx context.Context, limit int) ([]api.Run, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Runs []api.Run `json:"runs"`
	}
	if err := c.getJSON(ctx, "api/history", query, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}
