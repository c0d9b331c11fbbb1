package places

import (
	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *middleware.Middleware) {
	api := router.PathPrefix("/api/v1/places").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/discover", handler.Discover).Methods("GET")
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/swipe", handler.Swipe).Methods("POST")
	api.HandleFunc("/{id}", handler.GetPlace).Methods("GET")
	api.HandleFunc("/{id}/reviews", handler.AddReview).Methods("POST")
}
