package taste

import (
	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *middleware.Middleware) {
	api := router.PathPrefix("/api/v1/me/taste-profile").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetProfileStatus).Methods("GET")
	api.HandleFunc("/recalculate", handler.Recalculate).Methods("POST")
}
