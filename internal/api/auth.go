package api

import (
	"context"
	"fmt"
	"net/http"

	"simulador/pkg/models"
)

// Login authenticates with email and password and stores the token pair in
// the client's session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Login, error) {
	const op = "Login"

	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out struct {
		Success bool         `json:"success"`
		Login   models.Login `json:"login"`
	}
	err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/sessions", in: creds, out: &out, public: true})
	if err != nil {
		return nil, err
	}
	if !out.Success || out.Login.Token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedResponse)
	}

	if c.session != nil {
		if err := c.session.Login(ctx, out.Login); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	c.log.Info().Str("user", out.Login.User.Email).Msg("Logged in")
	return &out.Login, nil
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.RegisteredUser, error) {
	const op = "Register"

	if err := validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out models.RegisteredUser
	if err := c.do(ctx, call{op: op, method: http.MethodPost, path: "/user", in: reg, out: &out, public: true}); err != nil {
		return nil, err
	}
	return &out, nil
}
