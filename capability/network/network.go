// Package network is the default "network" capability module, a thin
// wrapper around resty.
package network

import (
	"context"
	"time"

	"resty.dev/v3"
)

type Response struct {
	Status int
	Body   []byte
}

type Client struct {
	rest *resty.Client
}

func New() *Client {
	return &Client{
		rest: resty.New().SetTimeout(30 * time.Second),
	}
}

// NewWithBaseURL creates a client rooted at the given base URL.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		rest: resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
	}
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	res, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	return &Response{Status: res.StatusCode(), Body: res.Bytes()}, nil
}

func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	res, err := c.rest.R().SetContext(ctx).SetBody(body).Post(url)
	if err != nil {
		return nil, err
	}

	return &Response{Status: res.StatusCode(), Body: res.Bytes()}, nil
}

// Close releases idle connections held by the underlying client.
func (c *Client) Close() error {
	return c.rest.Close()
}
