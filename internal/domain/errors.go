package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed request payload or file.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingText signals a document without text content.
	ErrMissingText = errors.New("text is required")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrNotFound signals a missing resource or a disabled feature.
	ErrNotFound = errors.New("not found")
	// ErrPayloadTooLarge signals an upload or batch above the configured limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrRateLimited signals a rate limit hit at the embedding provider.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider or model failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
