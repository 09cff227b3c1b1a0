// Package errors defines the coded errors surfaced by featmap commands.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// PathNotFound indicates the scan root or a required directory does not exist
	PathNotFound ErrorCode = "PATH_NOT_FOUND"
	// ScanFailed indicates the feature tree could not be built
	ScanFailed ErrorCode = "SCAN_FAILED"
	// GitUnavailable indicates git could not be executed for the repository
	GitUnavailable ErrorCode = "GIT_UNAVAILABLE"
	// DuplicateFeature indicates two features share the same name
	DuplicateFeature ErrorCode = "DUPLICATE_FEATURE"
	// SerializationFailed indicates the feature tree could not be encoded
	SerializationFailed ErrorCode = "SERIALIZATION_FAILED"
	// BuildFailed indicates the static export could not be written
	BuildFailed ErrorCode = "BUILD_FAILED"
	// ServerFailed indicates the HTTP server could not start or shut down
	ServerFailed ErrorCode = "SERVER_FAILED"
	// ConfigInvalid indicates the configuration file could not be loaded
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// ScanError represents a featmap error with a stable code
type ScanError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new ScanError
func New(code ErrorCode, message string, cause error) *ScanError {
	return &ScanError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ScanError) WithDetails(details interface{}) *ScanError {
	e.Details = details
	return e
}
