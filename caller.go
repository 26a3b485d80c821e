package yoomoney

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/northwire/yoomoney-go/httpwrap"
)

// Transport sends one authenticated exchange against the remote API. There is
// exactly one production implementation; tests substitute their own.
type Transport interface {
	// Call posts a form-encoded request and returns the raw response body.
	Call(ctx context.Context, endpoint string, params url.Values) (string, error)
	// GetRedirect posts a form-encoded request and returns the target of the
	// 302 reply without following it.
	GetRedirect(ctx context.Context, endpoint string, params url.Values) (string, error)
}

// remoteCaller binds an httpwrap.Client to a base address. The bearer token,
// when present, rides on the client's transport.
type remoteCaller struct {
	client *httpwrap.Client
	addr   string
}

func (r *remoteCaller) url(endpoint string) string {
	return strings.TrimSuffix(r.addr, "/") + "/" + endpoint
}

func (r *remoteCaller) Call(ctx context.Context, endpoint string, params url.Values) (string, error) {
	return r.client.PostForm(ctx, r.url(endpoint), params)
}

func (r *remoteCaller) GetRedirect(ctx context.Context, endpoint string, params url.Values) (string, error) {
	return r.client.CaptureRedirect(ctx, r.url(endpoint), params)
}

// call posts to an endpoint and resolves the reply envelope into T.
func call[T any](ctx context.Context, t Transport, endpoint string, params url.Values) (T, error) {
	var zero T
	body, err := t.Call(ctx, endpoint, params)
	if err != nil {
		return zero, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	return resolveBody[T](body)
}

// callEmpty posts to an endpoint and discards the body. Transport and status
// errors still surface.
func callEmpty(ctx context.Context, t Transport, endpoint string, params url.Values) error {
	if _, err := t.Call(ctx, endpoint, params); err != nil {
		return fmt.Errorf("calling %s: %w", endpoint, err)
	}
	return nil
}
