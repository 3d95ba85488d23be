package api

import (
	"bytes"
	"context"
	"io"

	"github.com/tecnojuy/aula/internal/config"
)

// UploadURL requests a pre-signed URL for a direct object storage upload.
func (c *Client) UploadURL(ctx context.Context, in UploadURLRequest) (*UploadURLResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out UploadURLResponse
	if err := c.Do(ctx, Request{Endpoint: config.StorageUploadURL, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProxyUpload posts an already encoded multipart body to the upload proxy.
func (c *Client) ProxyUpload(ctx context.Context, body io.Reader, contentType string, length int64) (UploadResult, error) {
	var out UploadResult
	req := Request{Endpoint: config.StorageProxyUpload, Raw: body, ContentType: contentType, Length: length}
	if err := c.Do(ctx, req, &out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

func (c *Client) DeleteFile(ctx context.Context, objectKey string) error {
	return c.Do(ctx, Request{Endpoint: config.StorageDeleteFile, Params: []any{objectKey}}, nil)
}

func (c *Client) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	var out struct {
		DownloadURL string `json:"download_url"`
	}
	req := Request{Endpoint: config.StorageDownloadURL, Query: Query{"object_key": objectKey}}
	if err := c.Do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

func (c *Client) FileInfo(ctx context.Context, objectKey string) (*FileInfo, error) {
	var out FileInfo
	if err := c.Do(ctx, Request{Endpoint: config.StorageFileInfo, Params: []any{objectKey}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) uploadImage(ctx context.Context, ep config.Endpoint, file FormFile) (*ImageUpload, error) {
	file.Field = "file"
	body, contentType, err := EncodeMultipart(file, nil)
	if err != nil {
		return nil, err
	}
	var out ImageUpload
	req := Request{Endpoint: ep, Raw: bytes.NewReader(body), ContentType: contentType, Length: int64(len(body))}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		out.URL = out.PublicURL
	}
	return &out, nil
}
