package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/models"
)

// TextGenerator is the single-call LLM surface the generator needs.
// *llm.Model is the production implementation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	Model() string
}

// factExtractionTemperature keeps extraction deterministic-ish; facts are
// transcription, not creativity.
const factExtractionTemperature = 0.3

// FactExtractor pulls structured facts out of an ordered series in one
// batched LLM call. It implements memory.FactExtractor.
type FactExtractor struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewFactExtractor creates a fact extractor over the given model.
func NewFactExtractor(llm TextGenerator, logger *slog.Logger) *FactExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactExtractor{llm: llm, logger: logger}
}

// ExtractFacts returns one bundle per input post, preserving order. Transport
// failures surface as-is; output that cannot be parsed into bundles is
// reported as memory.ErrFactExtractionMalformed so callers can degrade
// instead of failing the request.
func (f *FactExtractor) ExtractFacts(ctx context.Context, posts []models.Post) ([]models.FactBundle, error) {
	if len(posts) == 0 {
		return []models.FactBundle{}, nil
	}

	raw, err := f.llm.Generate(ctx, buildFactExtractionPrompt(posts), factExtractionTemperature)
	if err != nil {
		return nil, fmt.Errorf("fact extraction call: %w", err)
	}

	bundles, err := parseFactBundles(raw)
	if err != nil {
		f.logger.Warn("fact extraction returned unparseable output",
			"posts", len(posts), "output_len", len(raw))
		return nil, fmt.Errorf("%w: %v", memory.ErrFactExtractionMalformed, err)
	}

	// Models occasionally merge or skip posts; pad or trim so downstream
	// digest positions still line up with series order.
	if len(bundles) < len(posts) {
		bundles = append(bundles, models.EmptyFactBundles(len(posts)-len(bundles))...)
	} else if len(bundles) > len(posts) {
		bundles = bundles[:len(posts)]
	}

	f.logger.Debug("facts extracted", "posts", len(posts))
	return bundles, nil
}

// parseFactBundles decodes the model output as a JSON array of bundles,
// tolerating markdown fences and a single bare object.
func parseFactBundles(raw string) ([]models.FactBundle, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	var bundles []models.FactBundle
	if err := json.Unmarshal([]byte(text), &bundles); err == nil {
		return bundles, nil
	}

	var single models.FactBundle
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		return []models.FactBundle{single}, nil
	}

	return nil, fmt.Errorf("output is neither a bundle array nor a single bundle")
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
