package recommend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mekanapp/mekan-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	query := &Query{
		Category:   splitParam(r.URL.Query().Get("category")),
		Atmosphere: splitParam(r.URL.Query().Get("atmosphere")),
		Context:    r.URL.Query().Get("context"),
		Price:      r.URL.Query().Get("price"),
	}

	response, err := h.service.Recommend(r.Context(), userID, query, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"query":   response.Query,
		"results": response.Results,
		"count":   response.Count,
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
