package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows its HTTP status and public code.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

var statusCodes = map[int]string{
	http.StatusBadRequest:          "ERR_BAD_REQUEST",
	http.StatusConflict:            "ERR_CONFLICT",
	http.StatusUnprocessableEntity: "ERR_UNPROCESSABLE",
	http.StatusTooManyRequests:     "ERR_RATE_LIMITED",
	http.StatusServiceUnavailable:  "ERR_UNAVAILABLE",
	http.StatusInternalServerError: "ERR_INTERNAL",
}

// StatusError builds an AppError whose code is derived from status.
func StatusError(status int, message string) *AppError {
	code, ok := statusCodes[status]
	if !ok {
		code = "ERR_INTERNAL"
	}
	return &AppError{Code: code, Message: message, Status: status}
}

func BadRequestError(message string) *AppError {
	return StatusError(http.StatusBadRequest, message)
}

func UnprocessableError(message string) *AppError {
	return StatusError(http.StatusUnprocessableEntity, message)
}

func InternalError(message string) *AppError {
	return StatusError(http.StatusInternalServerError, message)
}

type errorRule struct {
	target error
	status int
}

// ErrorMapper resolves use case errors to AppErrors by sentinel. Rules are
// tried in registration order with errors.Is.
type ErrorMapper struct {
	rules []errorRule
}

// Map registers status for every error wrapping target.
func (m *ErrorMapper) Map(target error, status int) *ErrorMapper {
	m.rules = append(m.rules, errorRule{target: target, status: status})
	return m
}

// Resolve returns err itself when it already is an AppError. Cancelled or
// timed out requests become 503, unmatched errors an opaque 500.
func (m *ErrorMapper) Resolve(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, r := range m.rules {
		if errors.Is(err, r.target) {
			return StatusError(r.status, err.Error()).WithError(err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return StatusError(http.StatusServiceUnavailable, "request cancelled").WithError(err)
	}
	return InternalError("internal error").WithError(err)
}
