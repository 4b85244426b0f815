// Package generator produces posts from assembled memory context: prompt
// construction per style mode, the batched fact extractor, output validation
// and the request pipeline.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smahlberg/postmind/internal/memory"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// PostRequest is one generation request after transport-level validation.
type PostRequest struct {
	UserID string `json:"user_id"`
	Topic  string `json:"topic"`

	Tone      models.Tone        `json:"tone"`
	Audience  models.Audience    `json:"audience"`
	Length    models.LengthClass `json:"length"`
	StyleMode models.StyleMode   `json:"style_mode"`

	IncludeEmoji    bool `json:"include_emoji"`
	IncludeHashtags bool `json:"include_hashtags"`
	NumHashtags     int  `json:"num_hashtags"`

	IsSeries bool    `json:"is_series"`
	SeriesID *string `json:"series_id,omitempty"`
}

// PostMetadata describes how a post was generated.
type PostMetadata struct {
	Tone             models.Tone        `json:"tone"`
	Audience         models.Audience    `json:"audience"`
	Length           models.LengthClass `json:"length"`
	StyleMode        models.StyleMode   `json:"style_mode"`
	GenerationTimeMS float64            `json:"generation_time_ms"`
	ModelUsed        string             `json:"model_used"`
	SeriesID         *string            `json:"series_id,omitempty"`
	SeriesOrder      *int               `json:"series_order,omitempty"`
}

// PostResponse is the full generation result returned to clients.
type PostResponse struct {
	Post          string              `json:"post"`
	TopicExists   bool                `json:"topic_exists"`
	SimilarTopics []memory.TopicMatch `json:"similar_topics"`
	Message       string              `json:"message"`
	Validation    ValidationResult    `json:"validation"`
	Metadata      PostMetadata        `json:"metadata"`
}

// Service runs the generation pipeline: assemble memory context, build the
// prompt, call the model, validate, persist, respond.
type Service struct {
	engine    *memory.Engine
	llm       TextGenerator
	validator *Validator
	logger    *slog.Logger
	metrics   *metrics.Collector

	similarTemp   float64
	differentTemp float64
}

// ServiceConfig carries the service dependencies and temperatures.
type ServiceConfig struct {
	Engine    *memory.Engine
	LLM       TextGenerator
	Validator *Validator
	Logger    *slog.Logger

	// Metrics is optional; nil disables collection.
	Metrics *metrics.Collector

	SimilarTemperature   float64
	DifferentTemperature float64
}

// NewService constructs the generation service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:        cfg.Engine,
		llm:           cfg.LLM,
		validator:     cfg.Validator,
		logger:        logger,
		metrics:       cfg.Metrics,
		similarTemp:   cfg.SimilarTemperature,
		differentTemp: cfg.DifferentTemperature,
	}
}

// Generate runs the full pipeline for one request. The post is recorded in
// memory only after the output passes length validation; a rejected or failed
// generation leaves the store untouched.
func (s *Service) Generate(ctx context.Context, req PostRequest) (*PostResponse, error) {
	start := time.Now()

	memCtx, err := s.engine.GenerateMemoryContext(ctx, memory.ContextRequest{
		UserID:    req.UserID,
		Topic:     req.Topic,
		StyleMode: req.StyleMode,
		IsSeries:  req.IsSeries,
		SeriesID:  req.SeriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	prompt, temperature := s.buildPrompt(req, memCtx)

	genStart := time.Now()
	content, err := s.llm.Generate(ctx, prompt, temperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memory.ErrGenerationFailure, err)
	}
	s.metrics.RecordTiming(metrics.OpGeneration, time.Since(genStart))

	validation := s.validator.Validate(content)
	if !validation.LengthValid {
		return nil, fmt.Errorf("generated post rejected: %s", validation.LengthNote)
	}

	// The order in the assembled context is advisory (it shaped the prompt);
	// the durable order is assigned by RecordPost under the series lock so
	// concurrent continuations of the same series stay gapless and unique.
	created, err := s.engine.RecordPost(ctx, memory.RecordRequest{
		UserID:   req.UserID,
		Topic:    req.Topic,
		Content:  content,
		Tone:     req.Tone,
		Audience: req.Audience,
		Length:   req.Length,
		SeriesID: memCtx.SeriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("record post: %w", err)
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000

	s.logger.Info("post generated",
		"user_id", req.UserID, "kind", memCtx.Kind,
		"chars", len(content), "duration_ms", elapsed)

	return &PostResponse{
		Post:          content,
		TopicExists:   memCtx.TopicExists,
		SimilarTopics: memCtx.Matches,
		Message:       memCtx.Message,
		Validation:    validation,
		Metadata: PostMetadata{
			Tone:             req.Tone,
			Audience:         req.Audience,
			Length:           req.Length,
			StyleMode:        req.StyleMode,
			GenerationTimeMS: elapsed,
			ModelUsed:        s.llm.Model(),
			SeriesID:         created.SeriesID,
			SeriesOrder:      created.SeriesOrder,
		},
	}, nil
}

// buildPrompt picks the prompt variant and temperature for the assembled
// context kind. Series posts and style matching run cool; fresh angles run
// hotter for variety.
func (s *Service) buildPrompt(req PostRequest, memCtx *memory.GenerationContext) (string, float64) {
	spec := promptSpec{
		Topic:           req.Topic,
		Tone:            req.Tone,
		Audience:        req.Audience,
		Length:          req.Length,
		IncludeEmoji:    req.IncludeEmoji,
		IncludeHashtags: req.IncludeHashtags,
		NumHashtags:     req.NumHashtags,
	}

	switch memCtx.Kind {
	case memory.KindSeriesContinue:
		return buildSeriesPrompt(spec, memCtx.Series), s.similarTemp
	case memory.KindStandaloneAvoid:
		return buildDifferentPrompt(spec, memCtx.Avoid), s.differentTemp
	default:
		// Series starts share the style-matching prompt.
		return buildSimilarPrompt(spec, memCtx.Style), s.similarTemp
	}
}

// History returns a user's recent posts plus their total count.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]models.PostSummary, int, error) {
	summaries, err := s.engine.ListUserHistory(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.engine.CountPosts(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Series returns a user's series summaries.
func (s *Service) Series(ctx context.Context, userID string) ([]models.SeriesSummary, error) {
	return s.engine.ListUserSeries(ctx, userID)
}
