package graph

import (
	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *middleware.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/places/{id}/graph", handler.GetConnections).Methods("GET")
	api.HandleFunc("/places/{id}/graph/build", handler.BuildEdges).Methods("POST")
	api.HandleFunc("/recommendations/contextual", handler.GetContextualRecommendations).Methods("GET")
}
