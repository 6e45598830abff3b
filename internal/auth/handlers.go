// auth/handlers.go
package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Handler provides HTTP handlers for the OAuth connection flow.
type Handler struct {
	authorizer *Authorizer
	manager    *TokenManager
	logger     *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(authorizer *Authorizer, manager *TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		authorizer: authorizer,
		manager:    manager,
		logger:     logger,
	}
}

// InitHandler redirects the browser to the FreshBooks consent page.
func (h *Handler) InitHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.authorizer.AuthorizationURL(), http.StatusFound)
}

// CallbackHandler exchanges the authorization code and persists the tokens.
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No code provided", http.StatusBadRequest)
		return
	}

	tokens, err := h.authorizer.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("OAuth callback failed", zap.Error(err))
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.manager.UpdateTokens(r.Context(), tokens); err != nil {
		h.logger.Error("failed to store tokens", zap.Error(err))
		http.Error(w, "Error: failed to store tokens", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Successfully connected to FreshBooks!"))
}
