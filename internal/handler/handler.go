package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mfigueira/nossoapp/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything untyped is a 500 with a generic message so internals never
// leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		authErr       *service.AuthError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
		stateErr      *service.StateError
		fundsErr      *service.InsufficientFundsError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &authErr):
		writeError(w, http.StatusForbidden, authErr.Msg)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Msg)
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Msg)
	case errors.As(err, &stateErr):
		writeError(w, http.StatusConflict, stateErr.Msg)
	case errors.As(err, &fundsErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   fundsErr.Error(),
			"balance": fundsErr.Balance,
			"cost":    fundsErr.Cost,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
