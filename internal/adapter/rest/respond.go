package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError translates a usecase error to a status code and message.
// Unknown errors become an opaque 500; the detail goes to the log, not
// the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmailTaken):
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, messageResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
	}
}
