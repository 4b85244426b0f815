package memory

import (
	"testing"

	"github.com/smahlberg/postmind/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildStyleMatchingContext(t *testing.T) {
	t.Run("empty retrieval yields explicit no-examples default", func(t *testing.T) {
		sc := BuildStyleMatchingContext(nil)

		assert.False(t, sc.HasExamples)
		assert.NotNil(t, sc.Examples)
		assert.Empty(t, sc.Examples)
		assert.NotNil(t, sc.Tones)
		assert.Empty(t, sc.Tones)
	})

	t.Run("includes every result regardless of score", func(t *testing.T) {
		results := []models.RetrievedPost{
			retrieved("go generics", 0.90, models.ToneEducational, models.LengthMedium),
			retrieved("team rituals", 0.30, models.ToneCasual, models.LengthShort),
		}

		sc := BuildStyleMatchingContext(results)

		assert.True(t, sc.HasExamples)
		assert.Len(t, sc.Examples, 2)
		assert.Equal(t, "go generics", sc.Examples[0].Topic)
		assert.Equal(t, 0.30, sc.Examples[1].Similarity)
	})

	t.Run("tones deduplicated preserving first occurrence", func(t *testing.T) {
		results := []models.RetrievedPost{
			retrieved("a", 0.9, models.ToneCasual, models.LengthShort),
			retrieved("b", 0.8, models.ToneEducational, models.LengthShort),
			retrieved("c", 0.7, models.ToneCasual, models.LengthShort),
		}

		sc := BuildStyleMatchingContext(results)

		assert.Equal(t, []models.Tone{models.ToneCasual, models.ToneEducational}, sc.Tones)
	})
}

func TestBuildAvoidanceContext(t *testing.T) {
	t.Run("strictly above threshold only", func(t *testing.T) {
		results := []models.RetrievedPost{
			retrieved("exact", 0.75, models.ToneCasual, models.LengthShort),
			retrieved("above", 0.76, models.ToneCasual, models.LengthShort),
			retrieved("below", 0.74, models.ToneCasual, models.LengthShort),
		}

		ac := BuildAvoidanceContext(results, 0.75)

		assert.Len(t, ac.Topics, 1)
		assert.Equal(t, "above", ac.Topics[0].Topic)
	})

	t.Run("patterns deduplicated on tone and length", func(t *testing.T) {
		results := []models.RetrievedPost{
			retrieved("a", 0.9, models.ToneCasual, models.LengthShort),
			retrieved("b", 0.85, models.ToneCasual, models.LengthShort),
			retrieved("c", 0.8, models.ToneCasual, models.LengthLong),
		}

		ac := BuildAvoidanceContext(results, 0.75)

		assert.Len(t, ac.Topics, 3)
		assert.Equal(t, []AvoidPattern{
			{Tone: models.ToneCasual, Length: models.LengthShort},
			{Tone: models.ToneCasual, Length: models.LengthLong},
		}, ac.Patterns)
	})

	t.Run("nothing above threshold yields empty context", func(t *testing.T) {
		results := []models.RetrievedPost{
			retrieved("a", 0.5, models.ToneCasual, models.LengthShort),
		}

		ac := BuildAvoidanceContext(results, 0.75)

		assert.Empty(t, ac.Topics)
		assert.Empty(t, ac.Patterns)
	})
}
