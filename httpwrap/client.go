package httpwrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

const DefaultClientTimeout = 10 * time.Second

// Client is a wrapper around http.Client specialised for form-encoded POST
// calls. All API traffic goes through PostForm; CaptureRedirect issues the
// same kind of POST but intercepts the redirect instead of following it.
type Client struct {
	httpClient  *http.Client
	proxy       string
	bearerToken string
	timeout     time.Duration
}

// NewClient creates a new Client with the default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		timeout: DefaultClientTimeout,
	}
}

// PostForm sends a form-encoded POST and returns the raw response body.
// A non-2xx status yields an HTTPError carrying the status and body.
func (c *Client) PostForm(ctx context.Context, url string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(params.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logrus.WithFields(logrus.Fields{
		"url":    url,
		"params": params.Encode(),
	}).Debug("Sending form POST")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Failed to execute request")
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Error("Failed to read response body")
		return "", fmt.Errorf("reading response: %w", err)
	}

	logrus.WithField("body", string(body)).Debug("Received HTTP response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		httpErr.Log()
		return "", httpErr
	}

	return string(body), nil
}

// CaptureRedirect sends a form-encoded POST expecting a 302 reply and returns
// the redirect target without following it. The target is delivered by the
// redirect hook into a slot scoped to this one call; any status other than
// 302 is an HTTPError, and a 302 whose hook never fired is
// ErrRedirectNotCaptured.
func (c *Client) CaptureRedirect(ctx context.Context, url string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(params.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Fresh client per call: the capture slot must not outlive this exchange.
	slot := &redirectSlot{}
	client := &http.Client{
		Timeout:   c.timeout,
		Transport: c.httpClient.Transport,
		CheckRedirect: func(next *http.Request, via []*http.Request) error {
			slot.store(next.URL.String())
			return http.ErrUseLastResponse
		},
	}

	logrus.WithFields(logrus.Fields{
		"url":    url,
		"params": params.Encode(),
	}).Debug("Sending redirect-capture POST")

	resp, err := client.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Failed to execute request")
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		httpErr := HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		httpErr.Log()
		return "", httpErr
	}

	target, ok := slot.load()
	if !ok {
		// 302 without a Location header; the hook only runs when one exists.
		return "", ErrRedirectNotCaptured
	}
	return target, nil
}

// SetTimeout sets the timeout for the underlying http.Client.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
	c.timeout = timeout
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.SetTimeout(timeout)
	return c
}

// WithBearerToken sets the Bearer Token for the client.
func (c *Client) WithBearerToken(token string) *Client {
	c.bearerToken = token
	c.httpClient.Transport = &BearerTransport{
		Transport: c.httpClient.Transport,
		Token:     token,
	}
	return c
}

// SetProxy sets the proxy for the underlying http.Client.
// set http proxy in the format `http://HOST:PORT`
// set socket proxy in the format `socks5://HOST:PORT`
func (c *Client) SetProxy(proxyAddr string) error {
	if proxyAddr == "" {
		c.setTransport(&http.Transport{
			TLSNextProto: make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			DialContext: (&net.Dialer{
				Timeout: c.timeout,
			}).DialContext,
		})
		c.proxy = ""
		return nil
	} else if strings.HasPrefix(proxyAddr, "http") {
		urlproxy, err := url.Parse(proxyAddr)
		if err != nil {
			return err
		}
		c.setTransport(&http.Transport{
			Proxy:        http.ProxyURL(urlproxy),
			TLSNextProto: make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			DialContext: (&net.Dialer{
				Timeout: c.timeout,
			}).DialContext,
		})
		c.proxy = proxyAddr
		return nil
	} else if strings.HasPrefix(proxyAddr, "socks5") {
		baseDialer := &net.Dialer{
			Timeout:   c.timeout,
			KeepAlive: c.timeout,
		}
		proxyURL, err := url.Parse(proxyAddr)
		if err != nil {
			return err
		}

		// username password
		username := proxyURL.User.Username()
		password, _ := proxyURL.User.Password()

		// ip and port
		host := proxyURL.Hostname()
		port := proxyURL.Port()

		dialSocksProxy, err := proxy.SOCKS5("tcp", host+":"+port, &proxy.Auth{User: username, Password: password}, baseDialer)
		if err != nil {
			return errors.New("error creating socks5 proxy :" + err.Error())
		}
		contextDialer, ok := dialSocksProxy.(proxy.ContextDialer)
		if !ok {
			return errors.New("failed type assertion to DialContext")
		}
		c.setTransport(&http.Transport{
			DialContext: contextDialer.DialContext,
		})
		c.proxy = proxyAddr
		return nil
	}
	return errors.New("only support http(s) or socks5 protocol")
}

// setTransport swaps the base transport while keeping bearer injection.
func (c *Client) setTransport(transport http.RoundTripper) {
	if c.bearerToken != "" {
		transport = &BearerTransport{
			Transport: transport,
			Token:     c.bearerToken,
		}
	}
	c.httpClient.Transport = transport
}
