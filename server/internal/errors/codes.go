package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies failures at the AI/RAG boundary.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeEmbeddingFailed indicates the embedding provider call failed.
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"
	// ErrCodeGenerationFailed indicates the text generation call failed.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	// ErrCodeIndexUnavailable indicates the vector index could not be readied.
	ErrCodeIndexUnavailable ErrorCode = "INDEX_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// RAGError is a coded error for retrieval and generation operations.
type RAGError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RAGError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RAGError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *RAGError {
	return &RAGError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *RAGError {
	return &RAGError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *RAGError {
	return &RAGError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *RAGError {
	return &RAGError{Code: ErrCodeNotFound, Message: msg}
}

// EmbeddingFailed wraps an embedding provider failure.
func EmbeddingFailed(cause error) *RAGError {
	return &RAGError{Code: ErrCodeEmbeddingFailed, Message: "embedding call failed", Cause: cause}
}

// GenerationFailed wraps a text generation failure.
func GenerationFailed(cause error) *RAGError {
	return &RAGError{Code: ErrCodeGenerationFailed, Message: "generation call failed", Cause: cause}
}

// IndexUnavailable wraps a vector index readiness failure.
func IndexUnavailable(cause error) *RAGError {
	return &RAGError{Code: ErrCodeIndexUnavailable, Message: "vector index unavailable", Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *RAGError {
	return &RAGError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *RAGError {
	return &RAGError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *RAGError {
	return &RAGError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error anywhere in the chain carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var ragErr *RAGError
	if stderrors.As(err, &ragErr) {
		return ragErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error in the chain.
// Returns the provided default code if no RAGError is found.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var ragErr *RAGError
	if stderrors.As(err, &ragErr) {
		return ragErr.Code
	}
	return defaultCode
}
