package api

import (
	"context"

	"github.com/tecnojuy/aula/internal/config"
)

// BlogPosts returns one page of published posts.
func (c *Client) BlogPosts(ctx context.Context, filter BlogFilter) (*BlogPage, error) {
	var out BlogPage
	if err := c.Do(ctx, Request{Endpoint: config.BlogPosts, Query: filter.query(false)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BlogPost(ctx context.Context, slug string) (*BlogPost, error) {
	if slug == "" {
		return nil, ValidationError("slug is required")
	}
	var out BlogPost
	if err := c.Do(ctx, Request{Endpoint: config.BlogPostBySlug, Params: []any{slug}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BlogCategories(ctx context.Context) ([]BlogCategory, error) {
	var out []BlogCategory
	if err := c.Do(ctx, Request{Endpoint: config.BlogCategories}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BlogTags(ctx context.Context) ([]BlogTag, error) {
	var out []BlogTag
	if err := c.Do(ctx, Request{Endpoint: config.BlogTags}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminBlogPosts returns one page of posts including drafts.
func (c *Client) AdminBlogPosts(ctx context.Context, filter BlogFilter) (*BlogPage, error) {
	var out BlogPage
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminPosts, Query: filter.query(true)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminBlogPost(ctx context.Context, id int) (*BlogPost, error) {
	var out BlogPost
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminPost, Params: []any{id}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBlogPost(ctx context.Context, in BlogPostInput) (*BlogPost, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out BlogPost
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminPostCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlogPost(ctx context.Context, id int, in BlogPostInput) (*BlogPost, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out BlogPost
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminPostUpdate, Params: []any{id}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBlogPost(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.BlogAdminPostDelete, Params: []any{id}}, nil)
}

func (c *Client) AdminBlogCategories(ctx context.Context) ([]BlogCategory, error) {
	var out []BlogCategory
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminCategories}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBlogCategory(ctx context.Context, in BlogCategory) (*BlogCategory, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out BlogCategory
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminCategoryCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlogCategory(ctx context.Context, id int, in BlogCategory) (*BlogCategory, error) {
	var out BlogCategory
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminCategoryUpdate, Params: []any{id}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBlogCategory(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.BlogAdminCategoryDelete, Params: []any{id}}, nil)
}

func (c *Client) AdminBlogTags(ctx context.Context) ([]BlogTag, error) {
	var out []BlogTag
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminTags}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBlogTag(ctx context.Context, in BlogTag) (*BlogTag, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out BlogTag
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminTagCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlogTag(ctx context.Context, id int, in BlogTag) (*BlogTag, error) {
	var out BlogTag
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminTagUpdate, Params: []any{id}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBlogTag(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.BlogAdminTagDelete, Params: []any{id}}, nil)
}

func (c *Client) UploadBlogFeaturedImage(ctx context.Context, file FormFile) (*ImageUpload, error) {
	return c.uploadImage(ctx, config.BlogAdminFeaturedImage, file)
}

func (c *Client) BlogStats(ctx context.Context) (*BlogStats, error) {
	var out BlogStats
	if err := c.Do(ctx, Request{Endpoint: config.BlogAdminStats}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
