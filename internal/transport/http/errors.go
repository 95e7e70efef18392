package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketbay-be/internal/catalog"
	"marketbay-be/internal/order"
	"marketbay-be/internal/user"
)

const (
	codeInvalidInput  = "invalid_input"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "not_found"
	codeConflict      = "conflict"
	codeInternalError = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{Error: msg, Code: code})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

var invalidInputErrs = []error{
	user.ErrNameRequired,
	user.ErrEmailRequired,
	user.ErrInvalidRole,
	user.ErrReputationRange,
	user.ErrPasswordRequired,
	user.ErrNoUpdateFields,
	catalog.ErrNameRequired,
	catalog.ErrDescriptionRequired,
	catalog.ErrInvalidPrice,
	catalog.ErrInvalidStock,
	catalog.ErrInsufficientStock,
	catalog.ErrNoUpdateFields,
	order.ErrInvalidQuantity,
	order.ErrInvalidAmount,
	order.ErrInvalidResolution,
	order.ErrOrderNotPending,
	order.ErrOrderNotCompletable,
	order.ErrOrderNotDisputed,
	order.ErrOrderNotDisputable,
	order.ErrEscrowNotHeld,
}

var notFoundErrs = []error{
	user.ErrUserNotFound,
	catalog.ErrProductNotFound,
	order.ErrOrderNotFound,
	order.ErrEscrowNotFound,
}

var unauthorizedErrs = []error{
	catalog.ErrNotSeller,
	catalog.ErrNotOwner,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeServiceError maps the engine's three error kinds onto HTTP statuses:
// InvalidInput 400, Unauthorized 403, NotFound 404.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case matchesAny(err, invalidInputErrs):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case matchesAny(err, unauthorizedErrs):
		writeError(w, http.StatusForbidden, codeUnauthorized, err.Error())
	case matchesAny(err, notFoundErrs):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, user.ErrEmailExists):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
