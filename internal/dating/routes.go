// internal/dating/routes.go

package dating

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/dating").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Recommendations
	api.HandleFunc("/recommendations", handler.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods(http.MethodGet)

	// Hotpicks
	api.HandleFunc("/hotpicks", handler.GetHotpicks).Methods(http.MethodGet)
	api.HandleFunc("/hotpicks/generate", handler.GenerateHotpicks).Methods(http.MethodPost)

	// Realtime
	api.HandleFunc("/ws", handler.ServeWebSocket).Methods(http.MethodGet)
}
