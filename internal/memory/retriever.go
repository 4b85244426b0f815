package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// FindSimilar returns the user's top-limit past posts ranked by similarity to
// the topic text. The query vector is computed from the topic alone while
// stored vectors cover topic plus content; the asymmetry is intentional and
// accepted as close-enough semantic matching.
func (e *Engine) FindSimilar(ctx context.Context, userID, topic string, limit int) ([]models.RetrievedPost, error) {
	start := time.Now()
	vector, err := e.embedder.Embed(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
	}
	e.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))

	start = time.Now()
	results, err := e.store.SimilaritySearch(ctx, userID, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	e.metrics.RecordTiming(metrics.OpRetrieval, time.Since(start))

	e.logger.Debug("similarity retrieval complete", "user_id", userID, "results", len(results))
	return results, nil
}
