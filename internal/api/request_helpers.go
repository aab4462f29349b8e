package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/drill-api/internal/domain"
)

// UserQueryParam is the query parameter naming the acting user.
const UserQueryParam = "user"

// getPathUUID parses a UUID path parameter. A missing parameter is a
// validation error; a malformed one wraps domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// getQueryUser returns the trimmed ?user= value. Validation is left to the
// service so every entry point rejects the same inputs.
func getQueryUser(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get(UserQueryParam))
}
