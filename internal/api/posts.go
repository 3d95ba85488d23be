package api

import (
	"context"

	"github.com/tecnojuy/aula/internal/config"
)

func (c *Client) Posts(ctx context.Context, filter PostFilter) ([]PostSummary, error) {
	q := Query{"skip": filter.Skip, "limit": filter.Limit, "author_id": filter.AuthorID, "search": filter.Search}
	var posts []PostSummary
	if err := c.Do(ctx, Request{Endpoint: config.PostsList, Query: q}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, id int) (*Post, error) {
	var p Post
	if err := c.Do(ctx, Request{Endpoint: config.PostsDetail, Params: []any{id}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostCreate) (*Post, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var p Post
	if err := c.Do(ctx, Request{Endpoint: config.PostsCreate, Body: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int, in PostUpdate) (*Post, error) {
	var p Post
	if err := c.Do(ctx, Request{Endpoint: config.PostsUpdate, Params: []any{id}, Body: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.PostsDelete, Params: []any{id}}, nil)
}

// AdminPosts lists posts including drafts.
func (c *Client) AdminPosts(ctx context.Context, filter PostFilter) ([]PostSummary, error) {
	q := Query{"skip": filter.Skip, "limit": filter.Limit, "is_published": filter.IsPublished}
	var posts []PostSummary
	if err := c.Do(ctx, Request{Endpoint: config.PostsAdminList, Query: q}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) AdminPost(ctx context.Context, id int) (*Post, error) {
	var p Post
	if err := c.Do(ctx, Request{Endpoint: config.PostsAdminDetail, Params: []any{id}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
