package social

import (
	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *middleware.Middleware) {
	api := router.PathPrefix("/api/v1/social/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetMatches).Methods("GET")
	api.HandleFunc("/{placeId}", handler.ComputeMatch).Methods("POST")
}
