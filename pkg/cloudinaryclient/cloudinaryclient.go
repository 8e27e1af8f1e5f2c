package cloudinaryclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

const (
	_defaultConnAttempts = 5
	_defaultConnTimeout  = time.Second
)

type Client struct {
	connAttempts int
	connTimeout  time.Duration

	Cld *cloudinary.Cloudinary
}

func New(ctx context.Context, cloudName, apiKey, apiSecret string, opts ...Option) (*Client, error) {
	c := &Client{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("Client - New - cloudinary.NewFromParams: %w", err)
	}

	cld.Config.URL.Secure = true
	c.Cld = cld

	err = c.ping(ctx)
	for err != nil && c.connAttempts > 0 {
		log.Printf("Cloudinary is trying to connect, attempts left: %d", c.connAttempts)

		time.Sleep(c.connTimeout)

		c.connAttempts--
		err = c.ping(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("Client - New - connAttempts == 0: %w", err)
	}

	return c, nil
}

func (c *Client) ping(ctx context.Context) error {
	res, err := c.Cld.Admin.Ping(ctx)
	if err != nil {
		return fmt.Errorf("Client - ping - c.Cld.Admin.Ping: %w", err)
	}

	if res.Status != "ok" {
		return fmt.Errorf("Client - ping - unexpected status: %s", res.Status)
	}

	return nil
}
