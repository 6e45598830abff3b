// routes/webhooks.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/crestlinesc/fbserver/infrastructure"
)

// RegisterWebhookRoutes registers the FreshBooks webhook routes.
func RegisterWebhookRoutes(router *mux.Router, container *infrastructure.Container) {
	router.HandleFunc("/webhooks/ready", container.WebhookHandler.ReadyHandler).Methods("POST")
	router.HandleFunc("/webhooks/register", container.WebhookHandler.RegisterHandler).Methods("GET")
	router.HandleFunc("/webhooks/resend-code", container.WebhookHandler.ResendCodeHandler).Methods("GET")
}
