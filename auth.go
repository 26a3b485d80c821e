package yoomoney

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"github.com/northwire/yoomoney-go/httpwrap"
)

// AuthorizeCallback presents the authorization page address to an external
// actor (typically a human with a browser) and returns the authorization code
// extracted from the redirect the server issued. How the code is obtained is
// entirely up to the callback.
type AuthorizeCallback func(ctx context.Context, redirectAddr string) (string, error)

// UnauthorizedClient performs the authorization flow. Its calls carry no
// bearer credential.
type UnauthorizedClient struct {
	transport   Transport
	clientID    string
	redirectURI string
}

// NewUnauthorized creates a client for the authorization flow against the
// production address.
func NewUnauthorized(clientID, redirectURI string) *UnauthorizedClient {
	return &UnauthorizedClient{
		transport: &remoteCaller{
			client: httpwrap.NewClient(),
			addr:   DefaultBaseURL,
		},
		clientID:    clientID,
		redirectURI: redirectURI,
	}
}

// NewUnauthorizedWithTransport creates an authorization-flow client over a
// caller-supplied Transport.
func NewUnauthorizedWithTransport(transport Transport, clientID, redirectURI string) *UnauthorizedClient {
	return &UnauthorizedClient{
		transport:   transport,
		clientID:    clientID,
		redirectURI: redirectURI,
	}
}

// WithBaseURL points the client at a different API address.
func (c *UnauthorizedClient) WithBaseURL(addr string) *UnauthorizedClient {
	if r, ok := c.transport.(*remoteCaller); ok {
		r.addr = addr
	}
	return c
}

// Authorize runs the two-step flow and returns the permanent access token.
// Step one captures the authorization page address from the server's
// redirect; the callback then obtains the authorization code out-of-band;
// step two exchanges the code for the token. A failure at either step leaves
// no partial credential behind, and a failed callback skips the exchange
// entirely.
func (c *UnauthorizedClient) Authorize(ctx context.Context, scopes []AccessScope, callback AuthorizeCallback) (string, error) {
	redirectAddr, err := c.transport.GetRedirect(ctx, authorizeEndpoint, url.Values{
		"client_id":     {c.clientID},
		"response_type": {"code"},
		"redirect_uri":  {c.redirectURI},
		"scope":         {serializeScopes(scopes)},
		"instance_name": {uuid.NewString()},
	})
	if err != nil {
		return "", fmt.Errorf("requesting authorization page: %w", err)
	}

	logrus.WithField("redirect_addr", redirectAddr).Debug("Obtained authorization page address")

	code, err := callback(ctx, redirectAddr)
	if err != nil {
		return "", fmt.Errorf("obtaining authorization code: %w", err)
	}

	token, err := call[TokenExchangeData](ctx, c.transport, tokenEndpoint, url.Values{
		"code":         {code},
		"client_id":    {c.clientID},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {c.redirectURI},
	})
	if err != nil {
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}

	return token.AccessToken, nil
}

// serializeScopes renders a scope set as the space-joined token list the
// server expects. Duplicates collapse and order is made stable.
func serializeScopes(scopes []AccessScope) string {
	set := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		set[string(s)] = struct{}{}
	}
	tokens := maps.Keys(set)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
