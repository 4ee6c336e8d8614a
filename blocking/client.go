// Package blocking wraps the spoo.me client in calls without a context
// argument. Each call runs on the calling goroutine and is bounded only by
// the client's timeout.
package blocking

import (
	"context"

	spoome "github.com/rowjay/spoome-go"
	"github.com/rowjay/spoome-go/dto"
)

type Client struct {
	inner *spoome.Client
}

// New accepts the same options as spoome.New.
func New(opts ...spoome.Option) (*Client, error) {
	inner, err := spoome.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{inner: inner}, nil
}

// Wrap reuses an existing client.
func Wrap(c *spoome.Client) *Client {
	return &Client{inner: c}
}

func (c *Client) BaseURL() string {
	return c.inner.BaseURL()
}

func (c *Client) Shorten(req *dto.ShortenRequest) (*dto.ShortenResponse, error) {
	return c.inner.Shorten(context.Background(), req)
}

func (c *Client) Emoji(req *dto.EmojiRequest) (*dto.ShortenResponse, error) {
	return c.inner.Emoji(context.Background(), req)
}

func (c *Client) Stats(req *dto.StatsRequest) (*dto.StatsResponse, error) {
	return c.inner.Stats(context.Background(), req)
}

func (c *Client) Info(req *dto.StatsRequest) (*dto.LinkInfo, error) {
	return c.inner.Info(context.Background(), req)
}

func (c *Client) Export(req *dto.ExportRequest) (*dto.ExportResponse, error) {
	return c.inner.Export(context.Background(), req)
}
