package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/filmarkiv/filmarkiv-server/internal/errors"
)

// serverFel is the only error text the message endpoint ever returns.
const serverFel = "Serverfel"

// APIError is the failure envelope. It implements huma.StatusError so huma
// writes it with its status and the {success:false, error} body.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Success bool   `json:"success" doc:"Always false"`
	Message string `json:"error" doc:"Human-readable error message"`
}

func newAPIError(status int, msg string) *APIError {
	return &APIError{status: status, Message: msg}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// Translate maps a failure to the status and message the client sees.
func Translate(err error) (int, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.status, apiErr.Message
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domainerrors.CodeInvalidID:
			return http.StatusNotFound, "Resource not found with id of " + domainErr.Value
		case domainerrors.CodeNotFound:
			return http.StatusNotFound, "Movie not found with id of " + domainErr.Value
		case domainerrors.CodeValidation, domainerrors.CodeBadRequest:
			return http.StatusBadRequest, domainErr.Message
		}
		return serverError(domainErr.Message)
	}

	return serverError(err.Error())
}

func serverError(msg string) (int, string) {
	if msg == "" {
		msg = "Server Error"
	}
	return http.StatusInternalServerError, msg
}

// translated applies Translate to every error returned by h.
// Movie handlers never pick a status themselves.
func translated[I, O any](logger *slog.Logger, h func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, in *I) (*O, error) {
		out, err := h(ctx, in)
		if err == nil {
			return out, nil
		}

		status, msg := Translate(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed", "error", err)
		}
		return nil, newAPIError(status, msg)
	}
}

// RegisterErrorHandler makes huma's own failures (unsupported content type,
// oversized body, bad parameters) use the same envelope and translation.
// Call this before creating the huma.API. Only the first call installs the
// handler.
func RegisterErrorHandler() {
	registerErrorHandler.Do(func() { huma.NewError = newError })
}

var registerErrorHandler sync.Once

func newError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			code, msg := Translate(domainErr)
			return newAPIError(code, msg)
		}
	}

	// Parameter and body validation failures are plain bad requests here.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}
	if len(details) > 0 {
		message = strings.Join(details, ", ")
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return newAPIError(status, message)
}
