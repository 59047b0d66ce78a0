package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prasad123-hub/bill-splitter/internal/auth"
	"github.com/prasad123-hub/bill-splitter/internal/ledger"
	"github.com/prasad123-hub/bill-splitter/internal/service"
	"github.com/prasad123-hub/bill-splitter/internal/storage"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps domain errors to HTTP status codes. Validation
// errors are client bugs (400), never retried; busy means try again later.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNoParticipants),
		errors.Is(err, ledger.ErrUnknownMember),
		errors.Is(err, ledger.ErrSameParty),
		errors.Is(err, service.ErrGroupNameRequired),
		errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrUnregisteredMember),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
