package memory

import "github.com/smahlberg/postmind/internal/models"

// WritingExample is one past post offered as few-shot style material.
type WritingExample struct {
	Topic      string      `json:"topic"`
	Content    string      `json:"content"`
	Tone       models.Tone `json:"tone"`
	Similarity float64     `json:"similarity"`
}

// StyleMatchingContext bundles writing examples and the established tone set
// for style-matching generation. HasExamples distinguishes the explicit
// "no examples" default from a populated context so downstream prompt
// assembly always has something safe to render.
type StyleMatchingContext struct {
	HasExamples bool             `json:"has_examples"`
	Examples    []WritingExample `json:"writing_examples"`
	Tones       []models.Tone    `json:"tone_patterns"`
}

// AvoidTopic is a previously covered topic to steer away from.
type AvoidTopic struct {
	Topic      string  `json:"topic"`
	Similarity float64 `json:"similarity"`
}

// AvoidPattern is a (tone, length) combination to avoid repeating.
type AvoidPattern struct {
	Tone   models.Tone        `json:"tone"`
	Length models.LengthClass `json:"length"`
}

// AvoidanceContext bundles topics and style patterns to avoid for
// fresh-angle generation.
type AvoidanceContext struct {
	Topics   []AvoidTopic   `json:"topics_to_avoid"`
	Patterns []AvoidPattern `json:"patterns_to_avoid"`
}

// BuildStyleMatchingContext transforms retrieval results into style-matching
// material. Every input result is included regardless of score; tones are
// de-duplicated preserving first occurrence.
func BuildStyleMatchingContext(results []models.RetrievedPost) StyleMatchingContext {
	if len(results) == 0 {
		return StyleMatchingContext{
			HasExamples: false,
			Examples:    []WritingExample{},
			Tones:       []models.Tone{},
		}
	}

	examples := make([]WritingExample, 0, len(results))
	tones := make([]models.Tone, 0, len(results))
	seen := make(map[models.Tone]bool, len(results))

	for _, r := range results {
		examples = append(examples, WritingExample{
			Topic:      r.Topic,
			Content:    r.Content,
			Tone:       r.Tone,
			Similarity: r.SimilarityScore,
		})
		if !seen[r.Tone] {
			seen[r.Tone] = true
			tones = append(tones, r.Tone)
		}
	}

	return StyleMatchingContext{
		HasExamples: true,
		Examples:    examples,
		Tones:       tones,
	}
}

// BuildAvoidanceContext transforms retrieval results into avoidance material.
// Only results strictly above the threshold are considered; pattern pairs are
// de-duplicated on the (tone, length) key preserving first occurrence.
func BuildAvoidanceContext(results []models.RetrievedPost, threshold float64) AvoidanceContext {
	topics := make([]AvoidTopic, 0, len(results))
	patterns := make([]AvoidPattern, 0, len(results))
	seen := make(map[AvoidPattern]bool, len(results))

	for _, r := range results {
		if r.SimilarityScore <= threshold {
			continue
		}
		topics = append(topics, AvoidTopic{
			Topic:      r.Topic,
			Similarity: r.SimilarityScore,
		})
		p := AvoidPattern{Tone: r.Tone, Length: r.Length}
		if !seen[p] {
			seen[p] = true
			patterns = append(patterns, p)
		}
	}

	return AvoidanceContext{Topics: topics, Patterns: patterns}
}
