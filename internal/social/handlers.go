package social

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/utils"
	"github.com/mekanapp/mekan-backend/internal/places"
)

const defaultMatchLimit = 10

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := defaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	matches, err := h.service.ListMatches(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get social matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"matches": matches,
		"count":   len(matches),
	})
}

func (h *Handler) ComputeMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	placeID, err := strconv.ParseInt(mux.Vars(r)["placeId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place ID")
		return
	}

	match, err := h.service.ComputeMatch(r.Context(), userID, placeID)
	if err != nil {
		if err == places.ErrPlaceNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute social match")
		return
	}

	if match == nil {
		// No accepted friendships; nothing to score
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "no_friends",
			"message": "No accepted friendships to match against",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"match":   match,
	})
}
