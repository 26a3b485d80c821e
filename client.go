package yoomoney

import (
	"context"
	"net/url"
	"time"

	"github.com/northwire/yoomoney-go/httpwrap"
)

// Client is an authorized API client. It is immutable after construction and
// safe for concurrent use.
type Client struct {
	transport Transport
}

// New creates a Client bound to the production address. The token rides on
// every call as a bearer credential.
func New(token string) *Client {
	return &Client{
		transport: &remoteCaller{
			client: httpwrap.NewClient().WithBearerToken(token),
			addr:   DefaultBaseURL,
		},
	}
}

// NewWithTransport creates a Client over a caller-supplied Transport.
func NewWithTransport(transport Transport) *Client {
	return &Client{transport: transport}
}

// WithBaseURL points the client at a different API address.
func (c *Client) WithBaseURL(addr string) *Client {
	if r, ok := c.transport.(*remoteCaller); ok {
		r.addr = addr
	}
	return c
}

// WithClientTimeout sets the request timeout.
func (c *Client) WithClientTimeout(timeout time.Duration) *Client {
	if r, ok := c.transport.(*remoteCaller); ok {
		r.client.SetTimeout(timeout)
	}
	return c
}

// SetProxy
// set http proxy in the format `http://HOST:PORT`
// set socket proxy in the format `socks5://HOST:PORT`
func (c *Client) SetProxy(proxyAddr string) error {
	if r, ok := c.transport.(*remoteCaller); ok {
		return r.client.SetProxy(proxyAddr)
	}
	return nil
}

// AccountInfo returns the wallet state of the authorized account.
func (c *Client) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	info, err := call[AccountInfo](ctx, c.transport, accountInfoEndpoint, url.Values{})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// RevokeToken invalidates the bound credential. The reply body carries
// nothing of interest.
func (c *Client) RevokeToken(ctx context.Context) error {
	return callEmpty(ctx, c.transport, revokeEndpoint, url.Values{})
}
