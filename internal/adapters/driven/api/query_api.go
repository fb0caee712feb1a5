package api

import (
	"context"
	"net/http"

	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// Ask implements driven.QueryAPI.
func (c *Client) Ask(ctx context.Context, req driven.QueryRequest) (*driven.QueryResponse, error) {
	var resp driven.QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, c.queryURL+"/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
