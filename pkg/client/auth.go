package client

import (
	"context"
	"fmt"

	"github.com/fintracker/fintrack/pkg/domain"
)

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns the new session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	var s domain.Session
	if err := c.post(ctx, "/auth/register", false, req, &s); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &s, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	var s domain.Session
	if err := c.post(ctx, "/auth/login", false, req, &s); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &s, nil
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/profile", true, &u); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &u, nil
}
