// Package memory implements the semantic memory and context assembly engine:
// similarity retrieval over a per-user post store, topic novelty detection,
// style-matching and style-avoiding context assembly, and ordered post series
// with cross-post fact aggregation.
package memory

import (
	"context"
	"log/slog"

	"github.com/smahlberg/postmind/internal/db"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// Store is the durable post collection the engine reads and writes.
// *db.Client is the production implementation; tests substitute fakes.
type Store interface {
	// CreatePost persists a fully formed record atomically, assigning a
	// fresh id when absent. It is the only mutator.
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)

	// PostsByUser returns metadata-filtered records with no ranking and
	// unspecified order.
	PostsByUser(ctx context.Context, userID string, filter db.PostFilter, limit int) ([]models.Post, error)

	// CountPostsByUser returns the exact count of a user's records.
	CountPostsByUser(ctx context.Context, userID string) (int, error)

	// SimilaritySearch filters to the user scope before ranking by vector
	// similarity, returning the top limit by descending score.
	SimilaritySearch(ctx context.Context, userID string, vector []float32, limit int) ([]models.RetrievedPost, error)
}

// Embedder maps text to a fixed-length dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// FactExtractor is the batched LLM collaborator that turns an ordered series
// post list into one fact bundle per post. Malformed output must be signaled
// with ErrFactExtractionMalformed, distinct from transport failure.
type FactExtractor interface {
	ExtractFacts(ctx context.Context, posts []models.Post) ([]models.FactBundle, error)
}

// EngineConfig carries the engine's dependencies and tuning knobs.
// Everything is injected; the engine holds no global state.
type EngineConfig struct {
	Store         Store
	Embedder      Embedder
	FactExtractor FactExtractor

	// SimilarityThreshold is the score at or above which a retrieved post
	// counts as a topic match.
	SimilarityThreshold float64

	// RetrievalLimit caps how many similar posts are fetched per request.
	RetrievalLimit int

	Logger *slog.Logger

	// Metrics is optional; nil disables collection.
	Metrics *metrics.Collector
}

// Engine is the facade over the memory subsystem. It is safe for concurrent
// use: all fields are set at construction and shared read-only thereafter,
// except the per-series locks which guard order assignment.
type Engine struct {
	store     Store
	embedder  Embedder
	extractor FactExtractor
	threshold float64
	limit     int
	logger    *slog.Logger
	metrics   *metrics.Collector
	series    *seriesLocks
}

// NewEngine constructs the engine. Initialize once at process start and share
// across request handlers; there is nothing to tear down beyond the injected
// store connection.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.RetrievalLimit
	if limit <= 0 {
		limit = 3
	}
	return &Engine{
		store:     cfg.Store,
		embedder:  cfg.Embedder,
		extractor: cfg.FactExtractor,
		threshold: cfg.SimilarityThreshold,
		limit:     limit,
		logger:    logger,
		metrics:   cfg.Metrics,
		series:    newSeriesLocks(),
	}
}

// Threshold returns the configured similarity threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}
