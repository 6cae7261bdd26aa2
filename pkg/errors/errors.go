package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeExtraction represents per-card extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeNormalization represents price normalization errors
	ErrorTypeNormalization ErrorType = "normalization"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStorage represents database errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotification represents alert delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScopeError represents an error raised by one of the market intelligence components
type ScopeError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScopeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScopeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScopeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeNotification:
		return true
	default:
		return false
	}
}

// New creates a new ScopeError
func New(errType ErrorType, source, message string, err error) *ScopeError {
	return &ScopeError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *ScopeError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *ScopeError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewExtraction creates a new per-card extraction error
func NewExtraction(source, message string) *ScopeError {
	return New(ErrorTypeExtraction, source, message, nil)
}

// NewNormalization creates a new normalization error
func NewNormalization(source, message string) *ScopeError {
	return New(ErrorTypeNormalization, source, message, nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *ScopeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ScopeError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewStorage creates a new database error
func NewStorage(source, message string, err error) *ScopeError {
	return New(ErrorTypeStorage, source, message, err)
}

// NewNotification creates a new alert delivery error
func NewNotification(source, message string, err error) *ScopeError {
	return New(ErrorTypeNotification, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScopeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
