// routes/routes.go
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/infrastructure"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *mux.Router, container *infrastructure.Container) {
	router.Use(RequestLogger(container.Logger))

	RegisterAuthRoutes(router, container)
	RegisterWebhookRoutes(router, container)

	router.HandleFunc("/list-invoices", container.InvoiceHandler.ListHandler).Methods("GET")

	router.HandleFunc("/healthz", healthHandler(container)).Methods("GET")
	router.HandleFunc("/", statusHandler).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
}

func healthHandler(container *infrastructure.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy := container.RedisHealth.Check(r.Context())
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]bool{"redis": healthy})
	}
}

func statusHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("FreshBooks to Kforce Invoice Converter Webhook Service is running"))
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
		})
	}
}
