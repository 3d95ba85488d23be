package api

import (
	"context"
	"fmt"

	"github.com/tecnojuy/aula/internal/config"
)

// CurrentUser returns the user the session cookies belong to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.Do(ctx, Request{Endpoint: config.AuthMe}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RefreshSession asks the backend to rotate the access cookie using the
// refresh cookie.
func (c *Client) RefreshSession(ctx context.Context) error {
	if err := c.Do(ctx, Request{Endpoint: config.AuthRefresh}, nil); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, Request{Endpoint: config.AuthLogout}, nil)
}
