package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

type ErrorType string

const (
	ErrUnsupportedChain    ErrorType = "UNSUPPORTED_CHAIN_ERROR"
	ErrCredentialRequired  ErrorType = "CREDENTIAL_REQUIRED_ERROR"
	ErrUpstreamUnavailable ErrorType = "UPSTREAM_UNAVAILABLE_ERROR"
	ErrPriceUnavailable    ErrorType = "PRICE_UNAVAILABLE_ERROR"
	ErrInvalidSignature    ErrorType = "INVALID_SIGNATURE_ERROR"
	ErrExpiredTimestamp    ErrorType = "EXPIRED_TIMESTAMP_ERROR"
	ErrRateLimited         ErrorType = "RATE_LIMITED_ERROR"
	ErrOriginForbidden     ErrorType = "ORIGIN_FORBIDDEN_ERROR"
	ErrValidation          ErrorType = "VALIDATION_ERROR"
	ErrFatal               ErrorType = "FATAL_ERROR"
)

type AppError struct {
	Code       int       `json:"-"`
	Type       ErrorType `json:"type"`
	Message    string    `json:"error"`
	RetryAfter int       `json:"retryAfter,omitempty"`
	Timestamp  string    `json:"timestamp,omitempty"`
	Internal   string    `json:"internal,omitempty"`
}

func (a AppError) Error() string {
	return fmt.Sprintf("%s: %s", a.Type, a.Message)
}

func (a AppError) Serialize(w http.ResponseWriter) {
	a.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	if a.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprint(a.RetryAfter))
	}
	w.WriteHeader(a.Code)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		panic(a)
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func HandleBindError(err error) AppError {
	if errors.As(err, &AppError{}) {
		return AsAppError(err)
	}

	if v, ok := err.(validator.ValidationErrors); ok {
		var message string
		switch v[0].ActualTag() {
		case "required":
			message = fmt.Sprintf("%s is required", v[0].Field())
		case "number":
			message = fmt.Sprintf("%s must be a decimal number, value received: %v", v[0].Field(), v[0].Value())
		case "oneof":
			message = fmt.Sprintf("%s must be one of values: (%s), value received: %v", v[0].Field(), v[0].Param(), v[0].Value())
		case "gt", "gte", "lte":
			message = fmt.Sprintf("%s failed bound (%s %s), value received: %v", v[0].Field(), v[0].ActualTag(), v[0].Param(), v[0].Value())
		default:
			message = fmt.Sprintf("Validation failed on field { %s }, Condition: %s", v[0].Field(), v[0].ActualTag())
			if v[0].Param() != "" {
				message += fmt.Sprintf("{ %s }", v[0].Param())
			}
			if v[0].Value() != "" && v[0].Value() != nil {
				message += fmt.Sprintf(", Value Received: %v", v[0].Value())
			}
		}

		return AppError{
			Code:     http.StatusBadRequest,
			Type:     ErrValidation,
			Message:  message,
			Internal: err.Error(),
		}
	}
	if Is(err, io.EOF) {
		return NewValidationError("No request body")
	}

	vErr := NewValidationError("invalid request received")
	vErr.Internal = err.Error()

	return vErr
}

func NewValidationError(msg string) AppError {
	return AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrValidation,
		Message: msg,
	}
}

func NewUnsupportedChainError(chainID int) AppError {
	return AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrUnsupportedChain,
		Message: fmt.Sprintf("chain %d is not supported", chainID),
	}
}

func NewCredentialRequiredError() AppError {
	return AppError{
		Code:    http.StatusServiceUnavailable,
		Type:    ErrCredentialRequired,
		Message: "routing service credential is not configured",
	}
}

func NewUpstreamUnavailableError(msg string) AppError {
	return AppError{
		Code:    http.StatusBadGateway,
		Type:    ErrUpstreamUnavailable,
		Message: msg,
	}
}

func NewPriceUnavailableError(symbol string) AppError {
	return AppError{
		Code:    http.StatusBadGateway,
		Type:    ErrPriceUnavailable,
		Message: fmt.Sprintf("no spot price available for %s", symbol),
	}
}

func NewInvalidSignatureError() AppError {
	return AppError{
		Code:    http.StatusUnauthorized,
		Type:    ErrInvalidSignature,
		Message: "request signature is missing or invalid",
	}
}

func NewExpiredTimestampError() AppError {
	return AppError{
		Code:    http.StatusUnauthorized,
		Type:    ErrExpiredTimestamp,
		Message: "request timestamp is outside the freshness window",
	}
}

func NewRateLimitedError(retryAfter int) AppError {
	return AppError{
		Code:       http.StatusTooManyRequests,
		Type:       ErrRateLimited,
		Message:    "too many requests, slow down",
		RetryAfter: retryAfter,
	}
}

func NewOriginForbiddenError(origin string) AppError {
	return AppError{
		Code:     http.StatusForbidden,
		Type:     ErrOriginForbidden,
		Message:  "origin not allowed",
		Internal: origin,
	}
}

func NewFatalError(err error) AppError {
	return AppError{
		Code:     http.StatusInternalServerError,
		Type:     ErrFatal,
		Message:  "Oops! something happened on our end.",
		Internal: err.Error(),
	}
}

func NewUnknownError(err any) AppError {
	return NewFatalError(fmt.Errorf("%v", err))
}

func AsAppError(err error) AppError {
	apperr := new(AppError)
	if errors.As(err, apperr) {
		return *apperr
	}
	return NewFatalError(err)
}
