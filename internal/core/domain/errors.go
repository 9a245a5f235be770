package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service failed or is not
	// configured. Callers must treat this as "no retrieved context", never
	// substitute zero vectors.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service failed or is not configured.
	// Review degrades to static checks only.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates the vector index could not be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrInvalidFilter indicates a metadata filter the index cannot apply.
	// The failing retrieval is skipped; other files in the review proceed.
	ErrInvalidFilter = errors.New("invalid metadata filter")

	// ErrRetrievalTimeout indicates a retrieval or ingestion call timed out.
	// Timeouts are failures, not retryable partial results.
	ErrRetrievalTimeout = errors.New("retrieval timed out")

	// ErrRateLimited indicates the GitHub API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the repository requires authentication but no
	// token is configured.
	ErrAuthRequired = errors.New("authentication required")
)
