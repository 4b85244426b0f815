package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string, _ float64) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubLLM) Model() string { return "stub-model" }

func seriesPosts() []models.Post {
	return []models.Post{
		{Topic: "async standups", Content: "We dropped daily standups for async updates."},
		{Topic: "meeting budgets", Content: "Every team now has a weekly meeting budget."},
	}
}

func TestExtractFacts(t *testing.T) {
	t.Run("parses a bundle array", func(t *testing.T) {
		llm := &stubLLM{response: `[
			{"key_claims": ["standups cost 5 hours a week"], "personal_stories": [], "lessons": ["write it down"], "questions": []},
			{"key_claims": [], "personal_stories": ["our team tried it"], "lessons": [], "questions": ["what about urgency?"]}
		]`}
		extractor := NewFactExtractor(llm, nil)

		bundles, err := extractor.ExtractFacts(context.Background(), seriesPosts())
		require.NoError(t, err)

		require.Len(t, bundles, 2)
		assert.Equal(t, []string{"standups cost 5 hours a week"}, bundles[0].KeyClaims)
		assert.Equal(t, []string{"what about urgency?"}, bundles[1].Questions)
		assert.Equal(t, 1, llm.calls, "extraction is one batched call")
	})

	t.Run("tolerates markdown fences", func(t *testing.T) {
		llm := &stubLLM{response: "```json\n[{\"key_claims\": [\"a\"], \"personal_stories\": [], \"lessons\": [], \"questions\": []}]\n```"}
		extractor := NewFactExtractor(llm, nil)

		bundles, err := extractor.ExtractFacts(context.Background(), seriesPosts()[:1])
		require.NoError(t, err)
		require.Len(t, bundles, 1)
		assert.Equal(t, []string{"a"}, bundles[0].KeyClaims)
	})

	t.Run("wraps a single bare object", func(t *testing.T) {
		llm := &stubLLM{response: `{"key_claims": ["only one"], "personal_stories": [], "lessons": [], "questions": []}`}
		extractor := NewFactExtractor(llm, nil)

		bundles, err := extractor.ExtractFacts(context.Background(), seriesPosts()[:1])
		require.NoError(t, err)
		require.Len(t, bundles, 1)
		assert.Equal(t, []string{"only one"}, bundles[0].KeyClaims)
	})

	t.Run("pads short output to post count", func(t *testing.T) {
		llm := &stubLLM{response: `[{"key_claims": ["a"], "personal_stories": [], "lessons": [], "questions": []}]`}
		extractor := NewFactExtractor(llm, nil)

		bundles, err := extractor.ExtractFacts(context.Background(), seriesPosts())
		require.NoError(t, err)
		require.Len(t, bundles, 2)
		assert.True(t, bundles[1].Empty())
	})

	t.Run("prose output is malformed", func(t *testing.T) {
		llm := &stubLLM{response: "Sure! Here are the facts I found in the posts."}
		extractor := NewFactExtractor(llm, nil)

		_, err := extractor.ExtractFacts(context.Background(), seriesPosts())
		assert.ErrorIs(t, err, memory.ErrFactExtractionMalformed)
	})

	t.Run("transport failure is not malformed", func(t *testing.T) {
		llm := &stubLLM{err: errors.New("connection reset")}
		extractor := NewFactExtractor(llm, nil)

		_, err := extractor.ExtractFacts(context.Background(), seriesPosts())
		require.Error(t, err)
		assert.NotErrorIs(t, err, memory.ErrFactExtractionMalformed)
	})

	t.Run("empty input skips the model", func(t *testing.T) {
		llm := &stubLLM{}
		extractor := NewFactExtractor(llm, nil)

		bundles, err := extractor.ExtractFacts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, bundles)
		assert.Zero(t, llm.calls)
	})
}

func TestBuildFactExtractionPrompt(t *testing.T) {
	prompt := buildFactExtractionPrompt(seriesPosts())

	assert.Contains(t, prompt, "### POST 1 (Topic: async standups)")
	assert.Contains(t, prompt, "### POST 2 (Topic: meeting budgets)")
	assert.Contains(t, prompt, "We dropped daily standups")
	assert.Contains(t, prompt, `"key_claims"`)
}
