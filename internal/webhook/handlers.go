// webhook/handlers.go
package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/internal/auth"
	"github.com/crestlinesc/fbserver/internal/invoice"
)

// invoiceCreateEvent is the only event this service acts on.
const invoiceCreateEvent = "invoice.create"

// Event is the JSON envelope FreshBooks delivers on each webhook call.
type Event struct {
	EventType   string    `json:"event_type"`
	EventSource string    `json:"event_source"`
	EventTime   string    `json:"event_time"`
	Data        EventData `json:"data"`
}

// EventData carries the identifiers of the record that changed.
type EventData struct {
	InvoiceID  string `json:"invoice_id"`
	AccountID  string `json:"account_id"`
	BusinessID string `json:"business_id"`
}

// Handler serves the FreshBooks webhook endpoints.
type Handler struct {
	manager    *auth.TokenManager
	processor  *invoice.Processor
	secret     string
	callbackID string
	webhookURL string
	logger     *zap.Logger
}

// NewHandler creates a webhook handler. callbackID identifies the upstream
// subscription for verification and resend calls; webhookURL is this
// service's public base URL.
func NewHandler(manager *auth.TokenManager, processor *invoice.Processor, secret, callbackID, webhookURL string, logger *zap.Logger) *Handler {
	return &Handler{
		manager:    manager,
		processor:  processor,
		secret:     secret,
		callbackID: callbackID,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// ReadyHandler handles both webhook sub-protocols on /webhooks/ready:
// form-urlencoded carries the one-time subscription verifier, JSON carries
// the signed event envelope.
func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		h.handleVerification(w, r)
		return
	}
	h.handleEvent(w, r)
}

// handleVerification completes the one-time verifier exchange FreshBooks
// requires before it starts delivering events.
func (h *Handler) handleVerification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Malformed verification request",
		})
		return
	}
	verifier := r.PostForm.Get("verifier")

	client, err := h.manager.GetAuthenticatedClient(r.Context())
	if err != nil {
		h.logger.Error("verification failed: no authenticated client", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	if err := client.VerifyWebhookCallback(r.Context(), h.callbackID, verifier); err != nil {
		h.logger.Error("webhook verification failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"message":  "Verification successful",
		"verifier": verifier,
	})
}

// handleEvent verifies the signature over the raw body and processes
// invoice.create events.
func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to read request body",
		})
		return
	}

	if !VerifySignature(r.Header, body, h.secret, h.logger) {
		h.logger.Warn("invalid webhook signature")
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status":  "error",
			"message": "Invalid signature",
		})
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Malformed webhook payload",
		})
		return
	}

	if event.EventType != invoiceCreateEvent {
		h.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ignored",
			"reason": "Not an invoice.create event",
		})
		return
	}

	h.logger.Info("processing webhook event",
		zap.String("event_type", event.EventType),
		zap.String("invoice_id", event.Data.InvoiceID))

	client, err := h.manager.GetAuthenticatedClient(r.Context())
	if err != nil {
		h.logger.Error("no authenticated client for webhook", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	result, err := h.processor.Process(r.Context(), client, event.Data.InvoiceID)
	if err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("invoice_id", event.Data.InvoiceID),
			zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"result": result,
	})
}

// RegisterHandler subscribes this service's /webhooks/ready endpoint to
// invoice.create events.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	client, err := h.manager.GetAuthenticatedClient(r.Context())
	if err != nil {
		h.logger.Error("webhook registration failed", zap.Error(err))
		http.Error(w, "Failed to register webhook", http.StatusInternalServerError)
		return
	}

	callback, err := client.RegisterWebhookCallback(r.Context(), h.webhookURL+"/webhooks/ready", invoiceCreateEvent)
	if err != nil {
		h.logger.Error("webhook registration failed", zap.Error(err))
		http.Error(w, "Failed to register webhook", http.StatusInternalServerError)
		return
	}

	h.logger.Info("webhook registered", zap.Int64("callback_id", callback.CallbackID))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook registered successfully"))
}

// ResendCodeHandler asks FreshBooks to re-deliver the subscription verifier.
func (h *Handler) ResendCodeHandler(w http.ResponseWriter, r *http.Request) {
	client, err := h.manager.GetAuthenticatedClient(r.Context())
	if err != nil {
		h.logger.Error("resend verification failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	if err := client.ResendVerificationCode(r.Context(), h.callbackID); err != nil {
		h.logger.Error("resend verification failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Verification code resent",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
