// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for UAP
// clients. Every failure in the core surfaces as a *UAPError so callers
// (including LLM-driven agents) can decide whether to retry, correct
// their arguments, or give up.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies UAP errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the caller supplied an empty or
	// malformed required field. Local, never retried.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNetwork indicates a transport failure reaching the remote
	// service. Retry policy is left to the caller.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates a network operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeHTTP indicates the remote endpoint returned an error status.
	// The status and response body travel in the error context.
	CodeHTTP ErrorCode = "HTTP_ERROR"

	// CodeProtocol indicates a response body did not parse as the
	// expected document or JSON shape.
	CodeProtocol ErrorCode = "PROTOCOL_ERROR"

	// CodeNotFound indicates a module or action lookup missed.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeToolFailure indicates a registered tool execution failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeLLMError indicates an LLM provider error.
	CodeLLMError ErrorCode = "LLM_ERROR"
)

// UAPError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type UAPError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
	StatusCode  int // Remote HTTP status, when one applies
}

// Error implements the error interface.
func (e *UAPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *UAPError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *UAPError) MarshalJSON() ([]byte, error) {
	type Alias UAPError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new UAPError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *UAPError {
	return &UAPError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *UAPError) WithContext(key string, value interface{}) *UAPError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *UAPError) WithAttribute(key, value string) *UAPError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *UAPError) WithRecoverable(recoverable bool) *UAPError {
	e.Recoverable = recoverable
	return e
}

// WithStatusCode records the remote HTTP status on the error.
// Returns the error for method chaining.
func (e *UAPError) WithStatusCode(status int) *UAPError {
	e.StatusCode = status
	return e
}

// AsUAPError attempts to convert an error to a UAPError.
// Returns the error as UAPError if it is one, or wraps it otherwise.
func AsUAPError(err error) *UAPError {
	if err == nil {
		return nil
	}
	if ue, ok := err.(*UAPError); ok {
		return ue
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the error code of err, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if ue, ok := err.(*UAPError); ok {
		return ue.Code
	}
	return CodeInternal
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404 // NOT_FOUND
	case CodeInvalidInput:
		return 400 // INVALID_ARGUMENT
	case CodeTimeout:
		return 408 // DEADLINE_EXCEEDED
	default:
		return 500 // INTERNAL
	}
}
