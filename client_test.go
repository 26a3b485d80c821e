package yoomoney

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwire/yoomoney-go/httpwrap"
)

// mockAPIServer simulates the remote API over the production transport.
func mockAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := http.NewServeMux()
	handler.HandleFunc("/api/account-info", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.Write([]byte(`{"error": "invalid_token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"account": "4100123456789",
			"balance": "100.50",
			"currency": "643",
			"account_status": "identified",
			"account_type": "personal",
			"balance_details": {"total": "100.50", "available": "90.00", "deposition_pending": "0", "blocked": "0", "debt": "0", "hold": "10.50"},
			"cards_linked": [{"pan_fragment": "**0004", "type": "MasterCard"}]
		}`))
	})
	handler.HandleFunc("/api/revoke", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"anything": ["the", "client", "should", "ignore"]}`))
	})
	return httptest.NewServer(handler)
}

func TestAccountInfo(t *testing.T) {
	server := mockAPIServer(t)
	defer server.Close()

	client := New("test-token").WithBaseURL(server.URL)
	info, err := client.AccountInfo(context.Background())
	require.NoError(t, err)

	want := &AccountInfo{
		Account:       "4100123456789",
		Balance:       decimal.RequireFromString("100.50"),
		Currency:      "643",
		AccountStatus: AccountStatusIdentified,
		AccountType:   AccountTypePersonal,
		BalanceDetails: &BalanceDetails{
			Total:             decimal.RequireFromString("100.50"),
			Available:         decimal.RequireFromString("90.00"),
			DepositionPending: decimal.Zero,
			Blocked:           decimal.Zero,
			Debt:              decimal.Zero,
			Hold:              decimal.RequireFromString("10.50"),
		},
		CardsLinked: []LinkedCard{{PanFragment: "**0004", Type: CardTypeMasterCard}},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("account info mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountInfoInvalidToken(t *testing.T) {
	server := mockAPIServer(t)
	defer server.Close()

	client := New("wrong-token").WithBaseURL(server.URL)
	_, err := client.AccountInfo(context.Background())
	var remote RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "invalid_token", remote.Message)
}

func TestRevokeTokenIgnoresBody(t *testing.T) {
	server := mockAPIServer(t)
	defer server.Close()

	client := New("test-token").WithBaseURL(server.URL)
	require.NoError(t, client.RevokeToken(context.Background()))
}

func TestRevokeTokenUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := New("test-token").WithBaseURL(server.URL)
	err := client.RevokeToken(context.Background())
	var httpErr httpwrap.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", string(httpErr.Body))
}

func TestCallNetworkErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := New("test-token").WithBaseURL(server.URL)
	_, err := client.AccountInfo(context.Background())
	require.Error(t, err)
	var remote RemoteError
	assert.False(t, errors.As(err, &remote), "a transport failure is not a remote error")
	var httpErr httpwrap.HTTPError
	assert.False(t, errors.As(err, &httpErr), "a transport failure is not a status error")
}
