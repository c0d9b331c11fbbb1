package places

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mekanapp/mekan-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := parseID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place ID")
		return
	}

	place, err := h.service.GetPlace(r.Context(), placeID)
	if err != nil {
		if err == ErrPlaceNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, place)
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	filters := &DiscoverFilters{
		Category:    r.URL.Query().Get("category"),
		Atmosphere:  r.URL.Query().Get("atmosphere"),
		SuitableFor: r.URL.Query().Get("suitable_for"),
		PriceLevel:  r.URL.Query().Get("price_level"),
		City:        r.URL.Query().Get("city"),
	}

	result, err := h.service.Discover(r.Context(), userID, filters)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to discover places")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"places":  result,
		"count":   len(result),
	})
}

func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Swipe(r.Context(), userID, &dto)
	if err != nil {
		switch err {
		case ErrPlaceNotFound:
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case ErrInvalidAction:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record swipe")
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	utils.RespondWithJSON(w, status, result)
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	placeID, err := parseID(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid place ID")
		return
	}

	var dto ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.AddReview(r.Context(), userID, placeID, &dto)
	if err != nil {
		if err == ErrPlaceNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	action := r.URL.Query().Get("action")
	switch action {
	case "", ActionLike, ActionDislike, ActionSave:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidAction.Error())
		return
	}

	result, err := h.service.Preferences(r.Context(), userID, action)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"places":  result,
		"count":   len(result),
	})
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}
