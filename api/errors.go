package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"workroll/board"
	"workroll/domain"
)

// errInvalidRequest marks malformed bodies, parameters and failed validation.
var errInvalidRequest = errors.New("invalid request")

// errUpstream marks failures of a downstream write after the request itself
// was accepted.
var errUpstream = errors.New("upstream write failed")

type errorResponse struct {
	Error string `json:"error"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func errorStatus(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errUpstream):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrInvalidInviteCode),
		errors.Is(err, domain.ErrLastMember),
		errors.Is(err, domain.ErrMixedWorkspaces),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, board.ErrUnknownBucket):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as an error envelope and tags the request with stage.
func fail(c echo.Context, stage string, err error) error {
	status := errorStatus(err)
	setErrorStage(c, stage)
	msg := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg = fmt.Sprint(httpErr.Message)
	}
	if status >= http.StatusInternalServerError {
		c.Set(requestErrorKey, err)
		msg = http.StatusText(status)
	}
	return c.JSON(status, errorResponse{Error: msg})
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, dataResponse{Data: data})
}
