package api

import (
	"context"

	"github.com/tecnojuy/aula/internal/config"
)

// Homepage returns the public landing page content and gallery.
func (c *Client) Homepage(ctx context.Context) (*HomepageData, error) {
	var out HomepageData
	if err := c.Do(ctx, Request{Endpoint: config.HomepageData}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) HomepageContent(ctx context.Context) ([]HomepageContent, error) {
	var out []HomepageContent
	if err := c.Do(ctx, Request{Endpoint: config.HomepageContentList}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateHomepageContent(ctx context.Context, in HomepageContent) (*HomepageContent, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out HomepageContent
	if err := c.Do(ctx, Request{Endpoint: config.HomepageContentCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateHomepageContent(ctx context.Context, id int, in HomepageContent) (*HomepageContent, error) {
	var out HomepageContent
	if err := c.Do(ctx, Request{Endpoint: config.HomepageContentUpdate, Params: []any{id}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteHomepageContent(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.HomepageContentDelete, Params: []any{id}}, nil)
}

func (c *Client) Gallery(ctx context.Context) ([]GalleryItem, error) {
	var out []GalleryItem
	if err := c.Do(ctx, Request{Endpoint: config.HomepageGalleryList}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGalleryItem(ctx context.Context, in GalleryItem) (*GalleryItem, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out GalleryItem
	if err := c.Do(ctx, Request{Endpoint: config.HomepageGalleryCreate, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGalleryItem(ctx context.Context, id int, in GalleryItem) (*GalleryItem, error) {
	var out GalleryItem
	if err := c.Do(ctx, Request{Endpoint: config.HomepageGalleryUpdate, Params: []any{id}, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGalleryItem(ctx context.Context, id int) error {
	return c.Do(ctx, Request{Endpoint: config.HomepageGalleryDelete, Params: []any{id}}, nil)
}

// UploadHomepageImage stores an image for banners and gallery entries.
func (c *Client) UploadHomepageImage(ctx context.Context, file FormFile) (*ImageUpload, error) {
	return c.uploadImage(ctx, config.HomepageImageUpload, file)
}
