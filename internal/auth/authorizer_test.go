// auth/authorizer_test.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewAuthorizer_RejectsPlainHTTP(t *testing.T) {
	_, err := NewAuthorizer("id", "secret", "http://example.com/oauth/callback", zap.NewNop())
	require.Error(t, err)
	require.EqualError(t, err, "Redirect URI must use HTTPS")
}

func TestNewAuthorizer_UpgradesDevTunnel(t *testing.T) {
	a, err := NewAuthorizer("id", "secret", "http://happy-tunnel.trycloudflare.com/oauth/callback", zap.NewNop())
	require.NoError(t, err)

	parsed, err := url.Parse(a.AuthorizationURL())
	require.NoError(t, err)
	require.Equal(t, "https://happy-tunnel.trycloudflare.com/oauth/callback",
		parsed.Query().Get("redirect_uri"))
}

func TestNewAuthorizer_AcceptsHTTPS(t *testing.T) {
	_, err := NewAuthorizer("id", "secret", "https://example.com/oauth/callback", zap.NewNop())
	require.NoError(t, err)
}

func TestAuthorizationURL_ExactParams(t *testing.T) {
	a, err := NewAuthorizer("client-123", "secret", "https://example.com/oauth/callback", zap.NewNop())
	require.NoError(t, err)

	parsed, err := url.Parse(a.AuthorizationURL())
	require.NoError(t, err)
	require.Equal(t, "auth.freshbooks.com", parsed.Host)
	require.Equal(t, "/oauth/authorize", parsed.Path)

	query := parsed.Query()
	require.Len(t, query, 3)
	require.Equal(t, "client-123", query.Get("client_id"))
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "https://example.com/oauth/callback", query.Get("redirect_uri"))
}

func TestExchangeCode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	a, err := NewAuthorizer("id", "secret", "https://example.com/cb", zap.NewNop(), WithTokenURL(server.URL))
	require.NoError(t, err)

	tokens, err := a.ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	require.Equal(t, "at", tokens.AccessToken)
	require.Equal(t, "rt", tokens.RefreshToken)
	require.WithinDuration(t, time.Now().Add(time.Hour), tokens.ExpiresAt, 5*time.Second)
}

func TestExchangeCode_FixedFailureMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer server.Close()

	a, err := NewAuthorizer("id", "secret", "https://example.com/cb", zap.NewNop(), WithTokenURL(server.URL))
	require.NoError(t, err)

	_, err = a.ExchangeCode(context.Background(), "stale-code")
	require.ErrorIs(t, err, ErrExchangeFailed)
	require.EqualError(t, err, "Failed to exchange code for token")
}

func TestRefreshAccessToken_FixedFailureMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a, err := NewAuthorizer("id", "secret", "https://example.com/cb", zap.NewNop(), WithTokenURL(server.URL))
	require.NoError(t, err)

	_, err = a.RefreshAccessToken(context.Background(), "rt")
	require.ErrorIs(t, err, ErrRefreshFailed)
	require.EqualError(t, err, "Failed to refresh access token")
}

func TestRefreshAccessToken_GrantShape(t *testing.T) {
	var gotGrant map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &gotGrant))
		w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600}`))
	}))
	defer server.Close()

	a, err := NewAuthorizer("client-1", "secret-1", "https://example.com/cb", zap.NewNop(), WithTokenURL(server.URL))
	require.NoError(t, err)

	_, err = a.RefreshAccessToken(context.Background(), "old-rt")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     "client-1",
		"client_secret": "secret-1",
		"refresh_token": "old-rt",
	}, gotGrant)
}

func jsonDecode(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
