package errors

import (
	"errors"
	"fmt"
)

// Domain enumerates the possible error domains
type Domain string

const (
	DomainManifest  Domain = "manifest"
	DomainConfig    Domain = "config"
	DomainPipeline  Domain = "pipeline"
	DomainForwarder Domain = "forwarder"
)

// Code enumerates possible error codes for each domain
type Code string

// Manifest error codes
const (
	CodeManifestNotFound Code = "manifest_not_found"
	CodeInvalidManifest  Code = "invalid_manifest"
)

// Config error codes
const (
	CodeMissingService Code = "missing_service"
	CodeMissingRegion  Code = "missing_region"
	CodeInvalidSetting Code = "invalid_setting"
)

// Pipeline error codes
const (
	CodeUnknownEvent    Code = "unknown_event"
	CodePhaseFailed     Code = "phase_failed"
	CodeWrapperNotFound Code = "wrapper_not_found"
)

// Forwarder error codes
const (
	CodeSubscriptionFailed Code = "subscription_failed"
	CodeTransportError     Code = "transport_error"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	// The error domain (manifest, config, pipeline, forwarder)
	ErrDomain Domain

	// Error code unique within the domain
	ErrCode Code

	// Human-readable error message
	Message string

	// Optional fields for context
	Function string
	Details  map[string]interface{}

	// Original error that caused this one, if any
	Cause error
}

// Error returns the error message.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.ErrDomain, e.ErrCode, e.Message)

	if e.Function != "" {
		msg = fmt.Sprintf("%s (function: %s)", msg, e.Function)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the cause of this error
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// New creates a new DomainError.
func New(domain Domain, code Code, message string) *DomainError {
	return &DomainError{
		ErrDomain: domain,
		ErrCode:   code,
		Message:   message,
	}
}

// WithFunction adds function name context to the error
func (e *DomainError) WithFunction(name string) *DomainError {
	e.Function = name
	return e
}

// WithCause adds the causing error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetails adds additional context details
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	e.Details = details
	return e
}

// Wrap wraps an error with domain context.
func Wrap(domain Domain, code Code, message string, err error) *DomainError {
	return &DomainError{
		ErrDomain: domain,
		ErrCode:   code,
		Message:   message,
		Cause:     err,
	}
}

// Is checks if an error is a DomainError with the specified domain and code.
func Is(err error, domain Domain, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrDomain == domain && de.ErrCode == code
	}
	return false
}

// Common config errors
var (
	ErrMissingService = New(DomainConfig, CodeMissingService, "Service name could not be resolved")
	ErrMissingRegion  = New(DomainConfig, CodeMissingRegion, "Deployment region could not be resolved")
)
