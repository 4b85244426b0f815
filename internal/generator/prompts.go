package generator

import (
	"fmt"
	"strings"

	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/models"
)

const similarTemplate = `You are an expert LinkedIn ghostwriter. Write a LinkedIn post about the topic below, matching the author's established writing style.

TOPIC: %s

REQUIREMENTS:
- Tone: %s
- Target audience: %s
- Length: %s
- %s
- %s

THE AUTHOR'S PAST POSTS (match their voice, sentence rhythm and formatting):
%s

ESTABLISHED TONE PATTERNS: %s

Structure the post with a strong hook in the first line, a substantive body, and a closing question or call to action. Output ONLY the post text, nothing else.`

const differentTemplate = `You are an expert LinkedIn ghostwriter. Write a LinkedIn post about the topic below. The author has covered adjacent ground before, so bring a genuinely fresh angle.

TOPIC: %s

REQUIREMENTS:
- Tone: %s
- Target audience: %s
- Length: %s
- %s
- %s

TOPICS THE AUTHOR HAS ALREADY COVERED (do not rehash these angles):
%s

STYLE PATTERNS TO AVOID (the author wants variety):
%s

Structure the post with a strong hook in the first line, a substantive body, and a closing question or call to action. Output ONLY the post text, nothing else.`

const seriesTemplate = `You are an expert LinkedIn ghostwriter. Write post #%d of an ongoing LinkedIn series. The post must build on the earlier installments without repeating them, and it must stay factually consistent with everything already said.

TOPIC FOR THIS POST: %s

REQUIREMENTS:
- Tone: %s
- Target audience: %s
- Length: %s
- %s
- %s

THE SERIES SO FAR:
%s

FACTS ESTABLISHED IN EARLIER POSTS (stay consistent with these):
%s

Reference the series naturally (readers followed along), advance the argument, and close with a question or a teaser for the next installment. Output ONLY the post text, nothing else.`

const factExtractionTemplate = `Extract the key facts from each of the following LinkedIn posts. For EVERY post, in order, produce one JSON object with exactly these fields:
- "key_claims": factual claims or statistics the post asserts
- "personal_stories": personal anecdotes or experiences mentioned
- "lessons": lessons or takeaways the post teaches
- "questions": questions the post raises or leaves open

Use empty arrays for fields with nothing to extract.

POSTS:
%s

Respond with ONLY a JSON array containing one object per post, in the same order. No prose, no markdown fences.`

// lengthGuidance maps the length class to the instruction the model sees.
var lengthGuidance = map[models.LengthClass]string{
	models.LengthShort:  "short (roughly 100-300 characters)",
	models.LengthMedium: "medium (roughly 300-800 characters)",
	models.LengthLong:   "long (roughly 800-2000 characters)",
}

func lengthInstruction(l models.LengthClass) string {
	if g, ok := lengthGuidance[l]; ok {
		return g
	}
	return string(l)
}

func emojiInstruction(includeEmoji bool) string {
	if includeEmoji {
		return "Use 2-4 relevant emojis strategically placed"
	}
	return "Do NOT use any emojis"
}

func hashtagInstruction(includeHashtags bool, numHashtags int) string {
	if includeHashtags {
		return fmt.Sprintf("Include exactly %d relevant hashtags at the end", numHashtags)
	}
	return "Do NOT include any hashtags"
}

func formatWritingExamples(examples []memory.WritingExample) string {
	if len(examples) == 0 {
		return "No past examples available. Create fresh content."
	}
	parts := make([]string, 0, len(examples))
	for i, ex := range examples {
		parts = append(parts, fmt.Sprintf("### Example %d (Topic: %s)\n%s\n", i+1, ex.Topic, ex.Content))
	}
	return strings.Join(parts, "\n")
}

func formatTonePatterns(tones []models.Tone) string {
	if len(tones) == 0 {
		return "None established"
	}
	parts := make([]string, 0, len(tones))
	for _, t := range tones {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}

func formatTopicsToAvoid(topics []memory.AvoidTopic) string {
	if len(topics) == 0 {
		return "No previous topics to avoid."
	}
	parts := make([]string, 0, len(topics))
	for _, t := range topics {
		parts = append(parts, fmt.Sprintf("- %s (similarity: %.0f%%)", t.Topic, t.Similarity*100))
	}
	return strings.Join(parts, "\n")
}

func formatPatternsToAvoid(patterns []memory.AvoidPattern) string {
	if len(patterns) == 0 {
		return "No specific patterns to avoid."
	}
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, fmt.Sprintf("- Tone: %s, Length: %s", p.Tone, p.Length))
	}
	return strings.Join(parts, "\n")
}

func formatPostSummaries(summaries []string) string {
	if len(summaries) == 0 {
		return "This is the first post in the series."
	}
	return strings.Join(summaries, "\n")
}

// promptSpec carries the request knobs every prompt variant needs.
type promptSpec struct {
	Topic           string
	Tone            models.Tone
	Audience        models.Audience
	Length          models.LengthClass
	IncludeEmoji    bool
	IncludeHashtags bool
	NumHashtags     int
}

func (s promptSpec) instructions() (emoji, hashtags string) {
	return emojiInstruction(s.IncludeEmoji), hashtagInstruction(s.IncludeHashtags, s.NumHashtags)
}

func buildSimilarPrompt(spec promptSpec, style *memory.StyleMatchingContext) string {
	var examples []memory.WritingExample
	var tones []models.Tone
	if style != nil {
		examples = style.Examples
		tones = style.Tones
	}
	emoji, hashtags := spec.instructions()
	return fmt.Sprintf(similarTemplate,
		spec.Topic, spec.Tone, spec.Audience, lengthInstruction(spec.Length),
		emoji, hashtags,
		formatWritingExamples(examples), formatTonePatterns(tones))
}

func buildDifferentPrompt(spec promptSpec, avoid *memory.AvoidanceContext) string {
	var topics []memory.AvoidTopic
	var patterns []memory.AvoidPattern
	if avoid != nil {
		topics = avoid.Topics
		patterns = avoid.Patterns
	}
	emoji, hashtags := spec.instructions()
	return fmt.Sprintf(differentTemplate,
		spec.Topic, spec.Tone, spec.Audience, lengthInstruction(spec.Length),
		emoji, hashtags,
		formatTopicsToAvoid(topics), formatPatternsToAvoid(patterns))
}

func buildSeriesPrompt(spec promptSpec, series *memory.SeriesContext) string {
	emoji, hashtags := spec.instructions()
	return fmt.Sprintf(seriesTemplate,
		series.NextOrder, spec.Topic, spec.Tone, spec.Audience, lengthInstruction(spec.Length),
		emoji, hashtags,
		formatPostSummaries(series.Summaries), series.FactDigest)
}

func buildFactExtractionPrompt(posts []models.Post) string {
	parts := make([]string, 0, len(posts))
	for i, p := range posts {
		parts = append(parts, fmt.Sprintf("### POST %d (Topic: %s)\n%s", i+1, p.Topic, p.Content))
	}
	return fmt.Sprintf(factExtractionTemplate, strings.Join(parts, "\n\n---\n\n"))
}
