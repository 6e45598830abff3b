// routes/auth.go
package routes

import (
	"github.com/gorilla/mux"

	"github.com/crestlinesc/fbserver/infrastructure"
)

// RegisterAuthRoutes registers the OAuth connection routes.
func RegisterAuthRoutes(router *mux.Router, container *infrastructure.Container) {
	router.HandleFunc("/oauth/init", container.AuthHandler.InitHandler).Methods("GET")
	router.HandleFunc("/oauth/callback", container.AuthHandler.CallbackHandler).Methods("GET")
}
