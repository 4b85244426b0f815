package memory

import (
	"fmt"
	"time"

	"github.com/smahlberg/postmind/internal/models"
)

// TopicMatch is one previously covered topic at or above the threshold.
type TopicMatch struct {
	Topic           string    `json:"topic"`
	SimilarityScore float64   `json:"similarity_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// Classify decides whether a topic has been seen before. A result counts as
// a match iff its score is at or above the threshold (inclusive). Matches
// preserve the similarity-descending order of the retrieval input; empty
// input yields (false, empty) without touching the threshold.
func Classify(results []models.RetrievedPost, threshold float64) (bool, []TopicMatch) {
	if len(results) == 0 {
		return false, []TopicMatch{}
	}

	matches := make([]TopicMatch, 0, len(results))
	for _, r := range results {
		if r.SimilarityScore >= threshold {
			matches = append(matches, TopicMatch{
				Topic:           r.Topic,
				SimilarityScore: r.SimilarityScore,
				CreatedAt:       r.CreatedAt,
			})
		}
	}

	return len(matches) > 0, matches
}

// TopicMessage builds the user-facing novelty signal for the given style
// mode. Matches must be in similarity-descending order.
func TopicMessage(topicExists bool, matches []TopicMatch, mode models.StyleMode) string {
	if !topicExists || len(matches) == 0 {
		return "This is a fresh topic for you!"
	}

	top := matches[0]
	percent := int(top.SimilarityScore * 100)

	if mode == models.StyleSimilar {
		return fmt.Sprintf("You've posted about %q before (%d%% similar). I'll match your established style.",
			top.Topic, percent)
	}
	return fmt.Sprintf("You've posted about %q before (%d%% similar). I'll bring a fresh angle.",
		top.Topic, percent)
}
