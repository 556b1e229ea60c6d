package httpx

import (
	"errors"
	"net/http"

	"github.com/furniq/furniq-admin/internal/shared"
)

// RespondError maps domain errors to HTTP responses using the API envelope.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
