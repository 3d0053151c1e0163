// Package core holds the error taxonomy shared by the specification builder
// and the contract harness.
package core

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeStatusMismatch indicates the service answered with an unexpected status code
	ErrorTypeStatusMismatch ErrorType = "status_mismatch"
	// ErrorTypeContentType indicates an unexpected response media type
	ErrorTypeContentType ErrorType = "content_type_mismatch"
	// ErrorTypeUnexpectedBody indicates a body where the contract requires none (204)
	ErrorTypeUnexpectedBody ErrorType = "unexpected_body"
	// ErrorTypeMalformedContract indicates a response that cannot be mapped:
	// invalid JSON, a missing required field, or a field of the wrong kind
	ErrorTypeMalformedContract ErrorType = "malformed_contract"
	// ErrorTypeTransport indicates the request never produced a response
	ErrorTypeTransport ErrorType = "transport_error"
	// ErrorTypeInvalidRequest indicates the call could not be built
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
)

// maxBodyExcerpt bounds how much of a response body is quoted in error messages.
const maxBodyExcerpt = 256

// ContractError is the base error type for all harness errors
type ContractError struct {
	Type    ErrorType
	Message string
	// Endpoint is "METHOD url" once the error has passed through a client call.
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ContractError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Endpoint, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *ContractError) Unwrap() error {
	return e.Err
}

// WithEndpoint records the call the error belongs to and returns e.
func (e *ContractError) WithEndpoint(method, url string) *ContractError {
	e.Endpoint = method + " " + url
	return e
}

// NewStatusMismatchError creates an error for an unexpected status code
func NewStatusMismatchError(expected, actual int, body []byte) *ContractError {
	msg := fmt.Sprintf("expected status %d, got %d", expected, actual)
	if excerpt := bodyExcerpt(body); excerpt != "" {
		msg += ": " + excerpt
	}
	return &ContractError{
		Type:       ErrorTypeStatusMismatch,
		Message:    msg,
		StatusCode: actual,
	}
}

// NewContentTypeError creates an error for an unexpected response media type
func NewContentTypeError(expected, actual string, status int) *ContractError {
	return &ContractError{
		Type:       ErrorTypeContentType,
		Message:    fmt.Sprintf("expected content type %q, got %q", expected, actual),
		StatusCode: status,
	}
}

// NewUnexpectedBodyError creates an error for a body on a bodiless response
func NewUnexpectedBodyError(status int, body []byte) *ContractError {
	return &ContractError{
		Type:       ErrorTypeUnexpectedBody,
		Message:    fmt.Sprintf("status %d must not carry a body, got %d bytes: %s", status, len(body), bodyExcerpt(body)),
		StatusCode: status,
	}
}

// NewMalformedContractError creates an error for a response that cannot be mapped
func NewMalformedContractError(message string, err error) *ContractError {
	return &ContractError{
		Type:    ErrorTypeMalformedContract,
		Message: message,
		Err:     err,
	}
}

// NewTransportError creates an error for a failed round trip
func NewTransportError(message string, err error) *ContractError {
	return &ContractError{
		Type:    ErrorTypeTransport,
		Message: message,
		Err:     err,
	}
}

// NewInvalidRequestError creates an error for a call that could not be built
func NewInvalidRequestError(message string, err error) *ContractError {
	return &ContractError{
		Type:    ErrorTypeInvalidRequest,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is a ContractError of the given type.
func IsType(err error, typ ErrorType) bool {
	var ce *ContractError
	return errors.As(err, &ce) && ce.Type == typ
}

// IsMalformedContract reports whether err means the response shape was wrong,
// as opposed to a wrong value or an unreachable service.
func IsMalformedContract(err error) bool {
	return IsType(err, ErrorTypeMalformedContract)
}

func bodyExcerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	return string(body[:maxBodyExcerpt]) + "..."
}
