package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/rs/zerolog"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/provider"
)

// Client implements provider.Compute using the Hetzner Cloud API.
type Client struct {
	client   *hcloud.Client
	location string
	timeouts *config.Timeouts
	logger   zerolog.Logger
}

var _ provider.Compute = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLocation sets the home location for new floating IPs.
func WithLocation(location string) ClientOption {
	return func(c *Client) {
		c.location = location
	}
}

// NewClient creates a new Client with optional configuration.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("flexprov", "")),
		location: "fsn1",
		timeouts: config.DefaultTimeouts(),
		logger:   log.WithComponent("hcloud"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HCloudClient returns the underlying hcloud.Client.
func (c *Client) HCloudClient() *hcloud.Client {
	return c.client
}
