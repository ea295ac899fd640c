package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saedev/sae-auth/internal/shared"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is a storage or programming failure: it is logged
// and surfaced as a generic 500 without internal detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {

	var (
		status int
		detail string
	)

	switch {
	case errors.Is(err, shared.ErrorValidation):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrorEmailTaken):
		status, detail = http.StatusConflict, "email already registered"
	case errors.Is(err, shared.ErrorUsernameTaken):
		status, detail = http.StatusConflict, "username already taken"
	case errors.Is(err, shared.ErrorInvalidCredentials):
		status, detail = http.StatusUnauthorized, "incorrect email or password"
	case errors.Is(err, shared.ErrorIncorrectPassword):
		status, detail = http.StatusBadRequest, "current password is incorrect"
	case errors.Is(err, shared.ErrTokenExpired):
		status, detail = http.StatusUnauthorized, "token has expired"
	case errors.Is(err, shared.ErrorUnauthenticated):
		status, detail = http.StatusUnauthorized, "could not validate credentials"
	default:
		status, detail = http.StatusInternalServerError, "internal server error"
		s.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err.Error())
	}

	s.respondJSON(w, status, errorResponse{Detail: detail})
}
