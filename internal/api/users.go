package api

import (
	"context"

	"github.com/tecnojuy/aula/internal/config"
)

func (c *Client) Profile(ctx context.Context) (*AuthUser, error) {
	var u AuthUser
	if err := c.Do(ctx, Request{Endpoint: config.UsersProfile}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*AuthUser, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var u AuthUser
	if err := c.Do(ctx, Request{Endpoint: config.UsersProfileUpdate, Body: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Users lists accounts. Admin only.
func (c *Client) Users(ctx context.Context, filter UserFilter) ([]AuthUser, error) {
	var users []AuthUser
	if err := c.Do(ctx, Request{Endpoint: config.UsersList, Query: filter.query()}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.Do(ctx, Request{Endpoint: config.UsersRoles}, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
