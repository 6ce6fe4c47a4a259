package errors

import (
	"errors"
	"fmt"
)

// Exit codes for proxyctl
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitMissingResource = 2
	ExitPartialFailure  = 3
	ExitConfigError     = 4
)

// Kind classifies a ProxyError.
type Kind int

const (
	KindGeneral Kind = iota
	KindInvalidAddress
	KindLayerUnreadable
	KindLayerWriteFailed
	KindAuthorizationDenied
	KindMissingResource
	KindUsage
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAddress:
		return "InvalidAddressFormat"
	case KindLayerUnreadable:
		return "LayerUnreadable"
	case KindLayerWriteFailed:
		return "LayerWriteFailed"
	case KindAuthorizationDenied:
		return "AuthorizationDenied"
	case KindMissingResource:
		return "MissingResource"
	case KindUsage:
		return "Usage"
	case KindConfig:
		return "Config"
	default:
		return "General"
	}
}

// ProxyError is the base error type for proxyctl
type ProxyError struct {
	Code    int
	Kind    Kind
	Message string
	Cause   error
}

func (e *ProxyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ProxyError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *ProxyError) ExitCode() int {
	return e.Code
}

// New creates a new ProxyError
func New(code int, kind Kind, message string) *ProxyError {
	return &ProxyError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with a ProxyError
func Wrap(code int, kind Kind, message string, cause error) *ProxyError {
	return &ProxyError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// InvalidAddressFormat returns an error for an address fragment that
// matches none of the accepted shapes.
func InvalidAddressFormat(fragment, reason string) *ProxyError {
	return New(ExitGeneralError, KindInvalidAddress, fmt.Sprintf("invalid address %q: %s", fragment, reason))
}

// LayerUnreadable returns an error for a layer whose state could not be queried
func LayerUnreadable(layer string, cause error) *ProxyError {
	return Wrap(ExitGeneralError, KindLayerUnreadable, fmt.Sprintf("layer %s unreadable", layer), cause)
}

// LayerWriteFailed returns an error for a layer whose apply step failed
func LayerWriteFailed(layer string, cause error) *ProxyError {
	return Wrap(ExitGeneralError, KindLayerWriteFailed, fmt.Sprintf("layer %s write failed", layer), cause)
}

// AuthorizationDenied returns an error for a declined privileged step
func AuthorizationDenied(action string) *ProxyError {
	return New(ExitGeneralError, KindAuthorizationDenied, fmt.Sprintf("authorization denied for %s", action))
}

// MissingResource returns an error for an absent file or tool the command needs
func MissingResource(what string, cause error) *ProxyError {
	return Wrap(ExitMissingResource, KindMissingResource, fmt.Sprintf("missing %s", what), cause)
}

// UsageError returns an error for invalid command usage
func UsageError(message string) *ProxyError {
	return New(ExitGeneralError, KindUsage, message)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *ProxyError {
	return Wrap(ExitConfigError, KindConfig, message, cause)
}

// PartialFailure returns an error summarising a reconciliation in which
// some layers failed.
func PartialFailure(failed int, total int) *ProxyError {
	return New(ExitPartialFailure, KindLayerWriteFailed, fmt.Sprintf("%d of %d layers failed", failed, total))
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		return proxyErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the Kind of the first ProxyError in err's chain, or
// KindGeneral when there is none.
func KindOf(err error) Kind {
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		return proxyErr.Kind
	}
	return KindGeneral
}

// IsKind reports whether err carries a ProxyError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
