// invoice/handlers.go
package invoice

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/internal/auth"
	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

// Handler provides debug HTTP endpoints over the invoice API.
type Handler struct {
	manager *auth.TokenManager
	logger  *zap.Logger
}

// NewHandler creates a new invoice handler.
func NewHandler(manager *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// ListHandler lists invoices from the trailing 30 days.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	client, err := h.manager.GetAuthenticatedClient(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)
	filter := fbclient.ListInvoicesFilter{
		DateFrom: startDate.Format("2006-01-02"),
		DateTo:   endDate.Format("2006-01-02"),
		PerPage:  25,
	}

	invoices, err := client.ListInvoices(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list invoices", zap.Error(err))
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"invoices": invoices,
		"dateRange": map[string]string{
			"startDate": filter.DateFrom,
			"endDate":   filter.DateTo,
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
