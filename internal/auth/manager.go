// auth/manager.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/internal/kv"
	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

// tokenKey is the fixed KV key the single account's tokens live under.
const tokenKey = "oauth_tokens"

// ErrNoTokens is returned when no token pair has been persisted yet, or the
// persisted value cannot be parsed. The OAuth flow must run first.
var ErrNoTokens = errors.New("No tokens available")

// TokenManager is a single-slot, process-lifetime cache of the account's
// TokenPair, backed by the durable KV store. It performs no expiry check and
// no automatic refresh: an expired token surfaces as a fbclient.AuthError on
// the next API call and the caller decides when to refresh.
type TokenManager struct {
	store     kv.Store
	accountID string
	logger    *zap.Logger

	mu     sync.RWMutex
	tokens *TokenPair
}

// NewTokenManager creates a TokenManager. One instance per process; callers
// receive it by injection rather than through a package-level singleton.
func NewTokenManager(store kv.Store, accountID string, logger *zap.Logger) *TokenManager {
	return &TokenManager{
		store:     store,
		accountID: accountID,
		logger:    logger,
	}
}

// GetAuthenticatedClient returns an API client bound to the current access
// token, loading the persisted pair on first use.
func (m *TokenManager) GetAuthenticatedClient(ctx context.Context, opts ...fbclient.Option) (*fbclient.Client, error) {
	tokens, err := m.currentTokens(ctx)
	if err != nil {
		return nil, err
	}
	return fbclient.New(tokens.AccessToken, m.accountID, opts...), nil
}

// CurrentTokens returns the live TokenPair, loading from KV on a cache miss.
func (m *TokenManager) CurrentTokens(ctx context.Context) (*TokenPair, error) {
	return m.currentTokens(ctx)
}

func (m *TokenManager) currentTokens(ctx context.Context) (*TokenPair, error) {
	m.mu.RLock()
	tokens := m.tokens
	m.mu.RUnlock()
	if tokens != nil {
		return tokens, nil
	}

	data, err := m.store.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNoTokens
		}
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}

	var loaded TokenPair
	if err := json.Unmarshal(data, &loaded); err != nil {
		m.logger.Error("persisted tokens are unparsable", zap.Error(err))
		return nil, ErrNoTokens
	}

	m.mu.Lock()
	m.tokens = &loaded
	m.mu.Unlock()

	return &loaded, nil
}

// UpdateTokens replaces the in-memory slot and persists the pair.
// Last writer wins; there is no optimistic concurrency.
func (m *TokenManager) UpdateTokens(ctx context.Context, tokens *TokenPair) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	m.mu.Lock()
	m.tokens = tokens
	m.mu.Unlock()

	if err := m.store.Put(ctx, tokenKey, data); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	return nil
}

// ClearTokens drops both the in-memory slot and the persisted entry.
func (m *TokenManager) ClearTokens(ctx context.Context) error {
	m.mu.Lock()
	m.tokens = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
