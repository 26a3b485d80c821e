package httpwrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "bar", r.PostForm.Get("foo"))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	body, err := NewClient().PostForm(context.Background(), server.URL+"/api/test", url.Values{"foo": {"bar"}})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, body)
}

func TestPostFormUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("token expired"))
	}))
	defer server.Close()

	_, err := NewClient().PostForm(context.Background(), server.URL, url.Values{})
	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "token expired", string(httpErr.Body))
}

func TestPostFormSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	_, err := NewClient().WithBearerToken("secret-token").PostForm(context.Background(), server.URL, url.Values{})
	require.NoError(t, err)
}

func TestCaptureRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://x/callback?code=ABC", http.StatusFound)
	}))
	defer server.Close()

	target, err := NewClient().CaptureRedirect(context.Background(), server.URL+"/oauth/authorize", url.Values{})
	require.NoError(t, err)
	assert.Equal(t, "https://x/callback?code=ABC", target)
}

func TestCaptureRedirectDoesNotFollow(t *testing.T) {
	followed := false
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			http.Redirect(w, r, server.URL+"/target", http.StatusFound)
		case "/target":
			followed = true
		}
	}))
	defer server.Close()

	target, err := NewClient().CaptureRedirect(context.Background(), server.URL+"/start", url.Values{})
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/target", target)
	assert.False(t, followed, "the redirect must be captured, never followed")
}

func TestCaptureRedirectUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"looks": "fine"}`))
	}))
	defer server.Close()

	_, err := NewClient().CaptureRedirect(context.Background(), server.URL, url.Values{})
	var httpErr HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusOK, httpErr.StatusCode)
}

func TestCaptureRedirectMissingLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 302 with no Location header: the redirect hook never runs.
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	_, err := NewClient().CaptureRedirect(context.Background(), server.URL, url.Values{})
	require.ErrorIs(t, err, ErrRedirectNotCaptured)
}

func TestSetProxyRejectsUnknownScheme(t *testing.T) {
	err := NewClient().SetProxy("ftp://example.com:21")
	require.Error(t, err)
}
