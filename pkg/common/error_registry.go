package common

import (
	"fmt"
	"strings"
	"sync"
)

// ErrorCode represents a standardized error code returned over the control
// socket and the HTTP introspection surface, so a CLI or dashboard can branch
// on a stable code rather than parsing a message string.
type ErrorCode string

const (
	// ErrCodeUnknown covers anything not otherwise classified.
	ErrCodeUnknown ErrorCode = "RPOS_0000"

	// Module/control errors
	ErrCodeModuleNotFound ErrorCode = "RPOS_1000"
	ErrCodeModuleFailed   ErrorCode = "RPOS_1001"
	ErrCodeBadRequest     ErrorCode = "RPOS_1002"

	// Registry errors
	ErrCodeMessageNotFound ErrorCode = "RPOS_2000"
	ErrCodeTypeMismatch    ErrorCode = "RPOS_2001"

	// Scheduling errors (fatal in the core; surfaced here only for
	// supplementary layers that choose to recover and report instead of crash)
	ErrCodeInsufficientPrivilege ErrorCode = "RPOS_3000"
	ErrCodeDeadlineMissed        ErrorCode = "RPOS_3001"
)

// StandardizedError is an error carrying a stable code plus a message safe to
// show a control-socket or HTTP caller.
type StandardizedError struct {
	Code          ErrorCode `json:"code"`
	Message       string    `json:"message"`
	InternalError error     `json:"-"`
}

// Error implements the error interface
func (e *StandardizedError) Error() string {
	if e.InternalError != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.InternalError)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StandardizedError) Unwrap() error {
	return e.InternalError
}

// ErrorMapping defines an error code's canonical message.
type ErrorMapping struct {
	Code    ErrorCode
	Message string
}

// ErrorRegistry maps Go errors returned by core/supplementary packages to the
// stable ErrorCodes the control socket and HTTP surface report.
type ErrorRegistry struct {
	mu       sync.RWMutex
	mappings map[ErrorCode]ErrorMapping
	patterns map[string]ErrorCode
}

// NewErrorRegistry creates a registry pre-loaded with RPOS's default mappings.
func NewErrorRegistry() *ErrorRegistry {
	r := &ErrorRegistry{
		mappings: make(map[ErrorCode]ErrorMapping),
		patterns: make(map[string]ErrorCode),
	}
	r.registerDefaults()
	return r
}

func (r *ErrorRegistry) registerDefaults() {
	r.Register(ErrorMapping{ErrCodeUnknown, "an unclassified error occurred"})
	r.Register(ErrorMapping{ErrCodeModuleNotFound, "no module registered under that name"})
	r.Register(ErrorMapping{ErrCodeModuleFailed, "module execution returned an error"})
	r.Register(ErrorMapping{ErrCodeBadRequest, "malformed control request"})
	r.Register(ErrorMapping{ErrCodeMessageNotFound, "no message registered under that name"})
	r.Register(ErrorMapping{ErrCodeTypeMismatch, "message registered under a different type"})
	r.Register(ErrorMapping{ErrCodeInsufficientPrivilege, "insufficient privilege to set SCHED_FIFO priority"})
	r.Register(ErrorMapping{ErrCodeDeadlineMissed, "scheduler missed its deadline"})

	r.RegisterPattern("module not found", ErrCodeModuleNotFound)
	r.RegisterPattern("message not found", ErrCodeMessageNotFound)
	r.RegisterPattern("type mismatch", ErrCodeTypeMismatch)
	r.RegisterPattern("operation not permitted", ErrCodeInsufficientPrivilege)
}

// Register registers or replaces an error mapping.
func (r *ErrorRegistry) Register(mapping ErrorMapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[mapping.Code] = mapping
}

// RegisterPattern registers a substring-to-code mapping used by Map.
func (r *ErrorRegistry) RegisterPattern(pattern string, code ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[pattern] = code
}

// Map classifies err against the registered patterns, defaulting to ErrCodeUnknown.
func (r *ErrorRegistry) Map(err error) *StandardizedError {
	if err == nil {
		return nil
	}
	if stdErr, ok := err.(*StandardizedError); ok {
		return stdErr
	}

	errStr := err.Error()
	r.mu.RLock()
	defer r.mu.RUnlock()
	for pattern, code := range r.patterns {
		if strings.Contains(errStr, pattern) {
			return &StandardizedError{Code: code, Message: r.mappings[code].Message, InternalError: err}
		}
	}
	return &StandardizedError{Code: ErrCodeUnknown, Message: r.mappings[ErrCodeUnknown].Message, InternalError: err}
}

// MapWithCode wraps err under an explicit code, bypassing pattern matching.
func (r *ErrorRegistry) MapWithCode(err error, code ErrorCode) *StandardizedError {
	if err == nil {
		return nil
	}
	r.mu.RLock()
	mapping, exists := r.mappings[code]
	r.mu.RUnlock()
	if !exists {
		return r.Map(err)
	}
	return &StandardizedError{Code: code, Message: mapping.Message, InternalError: err}
}

var globalErrorRegistry = NewErrorRegistry()

// GetGlobalErrorRegistry returns the process-wide error registry.
func GetGlobalErrorRegistry() *ErrorRegistry {
	return globalErrorRegistry
}

// MapError maps err using the global registry.
func MapError(err error) *StandardizedError {
	return globalErrorRegistry.Map(err)
}

// MapErrorWithCode maps err to an explicit code using the global registry.
func MapErrorWithCode(err error, code ErrorCode) *StandardizedError {
	return globalErrorRegistry.MapWithCode(err, code)
}
