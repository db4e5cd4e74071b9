package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an AppError type to its HTTP status
func respondWithAppError(w http.ResponseWriter, err error) {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, apperrors.Message(err))
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, apperrors.Message(err))
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, apperrors.Message(err))
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, apperrors.Message(err))
	case apperrors.ErrorTypeExternal, apperrors.ErrorTypeEnrichment:
		respondWithError(w, http.StatusBadGateway, apperrors.Message(err))
	case apperrors.ErrorTypePersistence:
		respondWithError(w, http.StatusInternalServerError, apperrors.Message(err))
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(r *http.Request, key string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
