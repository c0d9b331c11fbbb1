package recommend

import (
	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *middleware.Middleware) {
	api := router.PathPrefix("/api/v1/recommendations").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetRecommendations).Methods("GET")
}
