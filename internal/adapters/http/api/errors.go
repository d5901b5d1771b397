package api

import (
	"errors"
	"net/http"

	"github.com/okian/athletebmi/internal/adapters/repository"
	service "github.com/okian/athletebmi/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error codes written in the error body.
const (
	codeBadRequest  = "bad_request"
	codeNotFound    = "not_found"
	codeUnavailable = "unavailable"
	codeInternal    = "internal_error"
)

// statusFor maps an upstream error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidOrder):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, repository.ErrYearNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
