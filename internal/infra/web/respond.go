package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"servihub/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`

	// Set only for insufficient-funds responses, in poisha.
	Required  *int64 `json:"required,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors to HTTP statuses. Unknown errors surface as
// a generic 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientFundsError
	if errors.As(err, &insufficient) {
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error:     insufficient.Error(),
			Required:  &insufficient.Required,
			Available: &insufficient.Available,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
