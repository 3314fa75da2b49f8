package api

import "context"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns the issued bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.post(ctx, "/auth/register", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Login authenticates and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.post(ctx, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
