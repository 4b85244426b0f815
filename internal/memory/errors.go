package memory

import (
	"errors"

	"github.com/smahlberg/postmind/internal/db"
)

var (
	// ErrStorageUnavailable mirrors the store's unavailability sentinel:
	// fatal for the current request, never retried locally.
	ErrStorageUnavailable = db.ErrUnavailable

	// ErrEmbeddingFailure indicates the embedding provider failed or
	// returned a malformed vector. Fatal; there is no fallback embedding.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailure indicates the LLM text generation call failed.
	// Fatal for the request; nothing is recorded.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrFactExtractionMalformed indicates the batched fact-extraction call
	// returned output that cannot be parsed into fact bundles. This is the
	// only locally recovered error class: the series manager substitutes
	// empty bundles and the request proceeds.
	ErrFactExtractionMalformed = errors.New("fact extraction output malformed")
)
