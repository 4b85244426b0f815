package generator

import (
	"strings"
	"testing"

	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/models"
	"github.com/stretchr/testify/assert"
)

func testSpec() promptSpec {
	return promptSpec{
		Topic:           "work-life balance in tech",
		Tone:            models.ToneProfessional,
		Audience:        models.AudienceEngineers,
		Length:          models.LengthMedium,
		IncludeEmoji:    true,
		IncludeHashtags: true,
		NumHashtags:     3,
	}
}

func TestBuildSimilarPrompt(t *testing.T) {
	t.Run("with examples", func(t *testing.T) {
		style := &memory.StyleMatchingContext{
			HasExamples: true,
			Examples: []memory.WritingExample{
				{Topic: "burnout", Content: "Burnout creeps up slowly.", Tone: models.ToneCasual},
			},
			Tones: []models.Tone{models.ToneCasual, models.ToneEducational},
		}

		prompt := buildSimilarPrompt(testSpec(), style)

		assert.Contains(t, prompt, "work-life balance in tech")
		assert.Contains(t, prompt, "### Example 1 (Topic: burnout)")
		assert.Contains(t, prompt, "Burnout creeps up slowly.")
		assert.Contains(t, prompt, "casual, educational")
		assert.Contains(t, prompt, "Use 2-4 relevant emojis")
		assert.Contains(t, prompt, "Include exactly 3 relevant hashtags")
	})

	t.Run("without examples", func(t *testing.T) {
		prompt := buildSimilarPrompt(testSpec(), nil)

		assert.Contains(t, prompt, "No past examples available. Create fresh content.")
		assert.Contains(t, prompt, "None established")
	})

	t.Run("emoji and hashtags off", func(t *testing.T) {
		spec := testSpec()
		spec.IncludeEmoji = false
		spec.IncludeHashtags = false

		prompt := buildSimilarPrompt(spec, nil)

		assert.Contains(t, prompt, "Do NOT use any emojis")
		assert.Contains(t, prompt, "Do NOT include any hashtags")
	})
}

func TestBuildDifferentPrompt(t *testing.T) {
	avoid := &memory.AvoidanceContext{
		Topics: []memory.AvoidTopic{
			{Topic: "remote work", Similarity: 0.87},
		},
		Patterns: []memory.AvoidPattern{
			{Tone: models.ToneCasual, Length: models.LengthShort},
		},
	}

	prompt := buildDifferentPrompt(testSpec(), avoid)

	assert.Contains(t, prompt, "- remote work (similarity: 87%)")
	assert.Contains(t, prompt, "- Tone: casual, Length: short")
	assert.Contains(t, prompt, "fresh angle")
}

func TestBuildDifferentPromptEmpty(t *testing.T) {
	prompt := buildDifferentPrompt(testSpec(), nil)

	assert.Contains(t, prompt, "No previous topics to avoid.")
	assert.Contains(t, prompt, "No specific patterns to avoid.")
}

func TestBuildSeriesPrompt(t *testing.T) {
	series := &memory.SeriesContext{
		SeriesID:   "abc",
		NextOrder:  3,
		PriorCount: 2,
		Summaries:  []string{"Post 1: async standups", "Post 2: meeting budgets"},
		FactDigest: "### From Post 1\n**Key Claims**: standups cost 5 hours a week",
	}

	prompt := buildSeriesPrompt(testSpec(), series)

	assert.Contains(t, prompt, "post #3 of an ongoing")
	assert.Contains(t, prompt, "Post 1: async standups\nPost 2: meeting budgets")
	assert.Contains(t, prompt, "standups cost 5 hours a week")
}

func TestBuildSeriesPromptFirstPost(t *testing.T) {
	series := &memory.SeriesContext{
		SeriesID:   "abc",
		NextOrder:  1,
		FactDigest: "No previous facts available (this is the first post).",
	}

	prompt := buildSeriesPrompt(testSpec(), series)

	assert.Contains(t, prompt, "This is the first post in the series.")
}

func TestLengthInstruction(t *testing.T) {
	assert.True(t, strings.Contains(lengthInstruction(models.LengthShort), "100-300"))
	assert.True(t, strings.Contains(lengthInstruction(models.LengthMedium), "300-800"))
	assert.True(t, strings.Contains(lengthInstruction(models.LengthLong), "800-2000"))
}
