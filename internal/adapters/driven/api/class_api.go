package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// ListClasses implements driven.ClassAPI.
func (c *Client) ListClasses(ctx context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	err := c.doJSON(ctx, http.MethodGet, c.ingestionURL+"/api/classes", nil, &classes)
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// CreateClass implements driven.ClassAPI. The backend takes the name as
// form data.
func (c *Client) CreateClass(ctx context.Context, name string) (*domain.Class, error) {
	form := url.Values{"name": {name}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.ingestionURL+"/api/classes", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var class domain.Class
	if err := c.finish(req, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// DeleteClass implements driven.ClassAPI.
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete,
		c.ingestionURL+"/api/classes/"+url.PathEscape(id), nil, nil)
}
