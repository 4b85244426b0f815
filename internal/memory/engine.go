package memory

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/smahlberg/postmind/internal/db"
	"github.com/smahlberg/postmind/internal/models"
)

// ContextKind tags which of the four generation contexts was assembled.
type ContextKind string

const (
	KindStandaloneSimilar ContextKind = "standalone_similar"
	KindStandaloneAvoid   ContextKind = "standalone_avoidance"
	KindSeriesStart       ContextKind = "series_start"
	KindSeriesContinue    ContextKind = "series_continuation"
)

// ContextRequest describes one generation request to the engine.
type ContextRequest struct {
	UserID    string
	Topic     string
	StyleMode models.StyleMode

	// IsSeries with a nil SeriesID starts a new series; with a SeriesID it
	// continues that series.
	IsSeries bool
	SeriesID *string
}

// GenerationContext is the assembled memory context handed to the generation
// backend. Exactly one of Style/Avoid/Series carries the mode-specific
// material, per Kind.
type GenerationContext struct {
	Kind  ContextKind `json:"kind"`
	Topic string      `json:"topic"`

	TopicExists bool         `json:"topic_exists"`
	Matches     []TopicMatch `json:"similar_topics"`
	Message     string       `json:"message"`

	Style  *StyleMatchingContext `json:"style,omitempty"`
	Avoid  *AvoidanceContext     `json:"avoid,omitempty"`
	Series *SeriesContext        `json:"series,omitempty"`

	SeriesID    *string `json:"series_id,omitempty"`
	SeriesOrder *int    `json:"series_order,omitempty"`
}

// GenerateMemoryContext branches on the request shape (standalone, start
// series, continue series) and assembles the matching generation context
// from retrieval results.
func (e *Engine) GenerateMemoryContext(ctx context.Context, req ContextRequest) (*GenerationContext, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	switch {
	case req.IsSeries && req.SeriesID != nil:
		return e.seriesContinuationContext(ctx, req)
	case req.IsSeries:
		return e.seriesStartContext(ctx, req)
	default:
		return e.standaloneContext(ctx, req)
	}
}

func (e *Engine) standaloneContext(ctx context.Context, req ContextRequest) (*GenerationContext, error) {
	results, err := e.FindSimilar(ctx, req.UserID, req.Topic, e.limit)
	if err != nil {
		return nil, err
	}

	exists, matches := Classify(results, e.threshold)
	gc := &GenerationContext{
		Topic:       req.Topic,
		TopicExists: exists,
		Matches:     matches,
		Message:     TopicMessage(exists, matches, req.StyleMode),
	}

	if req.StyleMode == models.StyleDifferent {
		gc.Kind = KindStandaloneAvoid
		avoid := BuildAvoidanceContext(results, e.threshold)
		gc.Avoid = &avoid
	} else {
		gc.Kind = KindStandaloneSimilar
		style := BuildStyleMatchingContext(results)
		gc.Style = &style
	}
	return gc, nil
}

// seriesStartContext mints a fresh series id. The first post of a series
// behaves like a similar-style standalone post for generation purposes.
func (e *Engine) seriesStartContext(ctx context.Context, req ContextRequest) (*GenerationContext, error) {
	results, err := e.FindSimilar(ctx, req.UserID, req.Topic, e.limit)
	if err != nil {
		return nil, err
	}

	seriesID := uuid.NewString()
	order := 1
	style := BuildStyleMatchingContext(results)

	return &GenerationContext{
		Kind:        KindSeriesStart,
		Topic:       req.Topic,
		Matches:     []TopicMatch{},
		Message:     fmt.Sprintf("Started new series (Post #1). Series ID: %s", seriesID),
		Style:       &style,
		SeriesID:    &seriesID,
		SeriesOrder: &order,
	}, nil
}

func (e *Engine) seriesContinuationContext(ctx context.Context, req ContextRequest) (*GenerationContext, error) {
	sc, err := e.continueSeries(ctx, req.UserID, *req.SeriesID)
	if err != nil {
		return nil, err
	}

	order := sc.NextOrder
	return &GenerationContext{
		Kind:    KindSeriesContinue,
		Topic:   req.Topic,
		Matches: []TopicMatch{},
		Message: fmt.Sprintf("Continuing series (Post #%d). Built on %d previous posts.",
			sc.NextOrder, sc.PriorCount),
		Series:      sc,
		SeriesID:    &sc.SeriesID,
		SeriesOrder: &order,
	}, nil
}

// RecordRequest describes a completed post to persist.
type RecordRequest struct {
	UserID   string
	Topic    string
	Content  string
	Tone     models.Tone
	Audience models.Audience
	Length   models.LengthClass

	// SeriesID groups the post into a series. When SeriesOrder is nil the
	// engine assigns the next position under the per-series lock; a non-nil
	// order is trusted as-is (callers that already serialize externally).
	SeriesID    *string
	SeriesOrder *int
}

// RecordPost embeds the post document and persists it, returning the created
// record with its assigned id and series order. Must be called exactly once
// per successful generation, after content validation; failed generations
// leave no trace in the store.
func (e *Engine) RecordPost(ctx context.Context, req RecordRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:      req.UserID,
		Topic:       req.Topic,
		Content:     req.Content,
		Tone:        req.Tone,
		Audience:    req.Audience,
		Length:      req.Length,
		SeriesID:    req.SeriesID,
		SeriesOrder: req.SeriesOrder,
	}

	vector, err := e.embedder.Embed(ctx, post.Document())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
	}
	post.Embedding = vector

	if req.SeriesID != nil && req.SeriesOrder == nil {
		// Hold the series lock across count and write so concurrent
		// continuations of the same series cannot assign duplicate orders.
		release := e.series.acquire(req.UserID, *req.SeriesID)
		defer release()

		posts, err := e.SeriesPosts(ctx, req.UserID, *req.SeriesID)
		if err != nil {
			return nil, err
		}
		order := len(posts) + 1
		post.SeriesOrder = &order
	}

	created, err := e.store.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("record post: %w", err)
	}

	e.logger.Info("post recorded",
		"user_id", created.UserID, "post_id", created.ID,
		"series", created.SeriesID != nil)
	return created, nil
}

// CountPosts returns how many posts the user has recorded in total.
func (e *Engine) CountPosts(ctx context.Context, userID string) (int, error) {
	count, err := e.store.CountPostsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// historyPreviewLen caps content previews in history listings.
const historyPreviewLen = 200

// ListUserHistory returns the user's posts ordered by recency.
func (e *Engine) ListUserHistory(ctx context.Context, userID string, limit int) ([]models.PostSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	posts, err := e.store.PostsByUser(ctx, userID, db.PostFilter{}, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	summaries := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		preview := p.Content
		if len(preview) > historyPreviewLen {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := historyPreviewLen
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}
		summaries = append(summaries, models.PostSummary{
			PostID:    p.ID,
			Topic:     p.Topic,
			Preview:   preview,
			Tone:      p.Tone,
			Audience:  p.Audience,
			CreatedAt: p.CreatedAt,
		})
	}
	return summaries, nil
}

// listSeriesFetchLimit bounds the client-side grouping scan.
const listSeriesFetchLimit = 1000

// ListUserSeries groups the user's posts by series id and summarizes each
// chain (first/last topic, total count), ordered by series creation time.
func (e *Engine) ListUserSeries(ctx context.Context, userID string) ([]models.SeriesSummary, error) {
	posts, err := e.store.PostsByUser(ctx, userID, db.PostFilter{}, listSeriesFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	grouped := make(map[string][]models.Post)
	for _, p := range posts {
		if p.SeriesID == nil {
			continue
		}
		grouped[*p.SeriesID] = append(grouped[*p.SeriesID], p)
	}

	summaries := make([]models.SeriesSummary, 0, len(grouped))
	for id, chain := range grouped {
		sortBySeriesOrder(chain)
		summaries = append(summaries, models.SeriesSummary{
			SeriesID:   id,
			TotalPosts: len(chain),
			FirstTopic: chain[0].Topic,
			LastTopic:  chain[len(chain)-1].Topic,
			CreatedAt:  chain[0].CreatedAt,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries, nil
}
