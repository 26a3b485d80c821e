package yoomoney

import (
	"context"
	"net/url"
	"sync"
)

// mockTransport is the test implementation of Transport. Each call is
// recorded and answered by the scripted handler.
type mockTransport struct {
	mu       sync.Mutex
	calls    []mockCall
	handle   func(endpoint string, params url.Values) (string, error)
	redirect func(endpoint string, params url.Values) (string, error)
}

type mockCall struct {
	endpoint string
	params   url.Values
}

func (m *mockTransport) record(endpoint string, params url.Values) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := url.Values{}
	for k, vs := range params {
		copied[k] = append([]string(nil), vs...)
	}
	m.calls = append(m.calls, mockCall{endpoint: endpoint, params: copied})
}

func (m *mockTransport) recorded() []mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockCall(nil), m.calls...)
}

func (m *mockTransport) Call(_ context.Context, endpoint string, params url.Values) (string, error) {
	m.record(endpoint, params)
	return m.handle(endpoint, params)
}

func (m *mockTransport) GetRedirect(_ context.Context, endpoint string, params url.Values) (string, error) {
	m.record(endpoint, params)
	return m.redirect(endpoint, params)
}
