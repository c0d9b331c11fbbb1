package graph

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/utils"
	"github.com/mekanapp/mekan-backend/internal/places"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetConnections(w http.ResponseWriter, r *http.Request) {
	placeID, err := parsePlaceID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place ID")
		return
	}

	connections, err := h.service.GetConnections(r.Context(), placeID)
	if err != nil {
		if err == places.ErrPlaceNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get place graph")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"connections": connections,
		"count":       len(connections),
	})
}

func (h *Handler) BuildEdges(w http.ResponseWriter, r *http.Request) {
	placeID, err := parsePlaceID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place ID")
		return
	}

	if err := h.service.BuildEdges(r.Context(), placeID); err != nil {
		if err == places.ErrPlaceNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build place graph")
		return
	}

	utils.MessageResponse(w, "Place graph updated", http.StatusOK)
}

func (h *Handler) GetContextualRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	reqContext := &RequestContext{
		TimeOfDay: r.URL.Query().Get("time_of_day"),
		DayOfWeek: r.URL.Query().Get("day_of_week"),
		Location:  r.URL.Query().Get("location"),
		Purpose:   r.URL.Query().Get("purpose"),
	}

	recommendations, err := h.service.ContextualRecommendations(r.Context(), userID, reqContext)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build contextual recommendations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"context":         reqContext,
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

func parsePlaceID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
