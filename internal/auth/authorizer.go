// auth/authorizer.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// authorizeURL is the FreshBooks consent page.
	authorizeURL = "https://auth.freshbooks.com/oauth/authorize"

	// tokenURL is the FreshBooks token endpoint for both grants.
	tokenURL = "https://api.freshbooks.com/auth/oauth/token"

	// devTunnelSuffix marks local development tunnels whose http redirect
	// URIs are upgraded to https instead of rejected.
	devTunnelSuffix = ".trycloudflare.com"
)

// Fixed token-endpoint failure messages. Upstream status and body are logged
// but never propagated to callers.
var (
	ErrExchangeFailed = errors.New("Failed to exchange code for token")
	ErrRefreshFailed  = errors.New("Failed to refresh access token")
)

// Authorizer handles the FreshBooks OAuth 2.0 authorization-code flow.
type Authorizer struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	httpClient   *http.Client
	logger       *zap.Logger
}

// AuthorizerOption customizes an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithTokenURL overrides the token endpoint, used in tests.
func WithTokenURL(tokenURL string) AuthorizerOption {
	return func(a *Authorizer) {
		a.tokenURL = tokenURL
	}
}

// NewAuthorizer creates an Authorizer, validating the redirect URI up front.
// Non-https redirect URIs are rejected, except development tunnel hosts which
// are upgraded to https in place.
func NewAuthorizer(clientID, clientSecret, redirectURI string, logger *zap.Logger, opts ...AuthorizerOption) (*Authorizer, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if parsed.Scheme == "http" {
		if !strings.HasSuffix(parsed.Hostname(), devTunnelSuffix) {
			return nil, errors.New("Redirect URI must use HTTPS")
		}
		parsed.Scheme = "https"
		redirectURI = parsed.String()
	}

	a := &Authorizer{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     tokenURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// AuthorizationURL builds the consent redirect. The query carries exactly
// client_id, response_type and redirect_uri.
func (a *Authorizer) AuthorizationURL() string {
	params := url.Values{}
	params.Set("client_id", a.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", a.redirectURI)
	return authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for a TokenPair.
func (a *Authorizer) ExchangeCode(ctx context.Context, code string) (*TokenPair, error) {
	body := map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"code":          code,
		"redirect_uri":  a.redirectURI,
	}
	return a.requestToken(ctx, body, ErrExchangeFailed)
}

// RefreshAccessToken trades a refresh token for a fresh TokenPair.
func (a *Authorizer) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"refresh_token": refreshToken,
	}
	return a.requestToken(ctx, body, ErrRefreshFailed)
}

// requestToken performs one POST to the token endpoint. Any non-2xx response
// collapses to the fixed failure error.
func (a *Authorizer) requestToken(ctx context.Context, grant map[string]string, failure error) (*TokenPair, error) {
	payload, err := json.Marshal(grant)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.logger.Error("token endpoint returned non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("grant_type", grant["grant_type"]))
		return nil, failure
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return &TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, nil
}
