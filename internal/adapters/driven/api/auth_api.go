package api

import (
	"context"
	"net/http"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login implements driven.AuthAPI.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Credential, error) {
	var cred domain.Credential
	err := c.doJSON(ctx, http.MethodPost, c.authURL+"/auth/login",
		authRequest{Email: email, Password: password}, &cred)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Register implements driven.AuthAPI.
func (c *Client) Register(ctx context.Context, email, password string) (*domain.Credential, error) {
	var cred domain.Credential
	err := c.doJSON(ctx, http.MethodPost, c.authURL+"/auth/register",
		authRequest{Email: email, Password: password}, &cred)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Me implements driven.AuthAPI.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, c.authURL+"/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
