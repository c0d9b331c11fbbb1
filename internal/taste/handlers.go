package taste

import (
	"net/http"

	"github.com/mekanapp/mekan-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProfileStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	status, err := h.service.GetProfileStatus(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get taste profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}

func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	profile, err := h.service.Recalculate(r.Context(), userID)
	if err != nil {
		if err == ErrInsufficientData {
			// Not a failure: the client shows progress toward the minimum
			utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"success": false,
				"error":   "insufficient_data",
				"message": "Not enough interactions to build a taste profile yet",
			})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to recalculate taste profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profile,
	})
}
