package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dalfonso89/fortune-teller-service/internal/ratelimit"
)

// ErrorType classifies service failures for logging and HTTP mapping
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeRateLimited
	ErrorTypeNetwork
	ErrorTypeInvalidResponse
	ErrorTypeContextCancelled
	ErrorTypeProviderFailed
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeRateLimited:
		return "rate_limited"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeInvalidResponse:
		return "invalid_response"
	case ErrorTypeContextCancelled:
		return "context_cancelled"
	case ErrorTypeProviderFailed:
		return "provider_failed"
	default:
		return "unknown"
	}
}

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// classifyError returns the type of err, looking through wrapped errors
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError.Type
	}

	var netError net.Error
	switch {
	case errors.Is(err, ratelimit.ErrRateLimitExceeded):
		return ErrorTypeRateLimited
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextCancelled
	case errors.As(err, &netError):
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}
