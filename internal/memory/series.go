package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smahlberg/postmind/internal/db"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// seriesLocks serializes series-order assignment per (user_id, series_id).
// The count-then-write sequence is not guarded by the store, so the engine
// guards it here; cross-process writers still need external serialization.
type seriesLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSeriesLocks() *seriesLocks {
	return &seriesLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns its release function.
func (l *seriesLocks) acquire(userID, seriesID string) func() {
	key := userID + "\x00" + seriesID
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// SeriesContext is the continuation bundle for the next post in a series.
type SeriesContext struct {
	SeriesID   string   `json:"series_id"`
	NextOrder  int      `json:"next_order"`
	PriorCount int      `json:"prior_count"`
	Summaries  []string `json:"post_summaries"`
	FactDigest string   `json:"fact_digest"`
}

// SeriesPosts returns all posts of one series, ordered ascending by
// series_order. Both scopes are always applied: a series can never be
// fetched across users.
func (e *Engine) SeriesPosts(ctx context.Context, userID, seriesID string) ([]models.Post, error) {
	posts, err := e.store.PostsByUser(ctx, userID, db.PostFilter{SeriesID: &seriesID}, seriesFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("series posts: %w", err)
	}
	sortBySeriesOrder(posts)
	return posts, nil
}

// A series is bounded in practice by how many posts one user writes under a
// single id; 100 matches the original storage layer's scroll window.
const seriesFetchLimit = 100

func sortBySeriesOrder(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return orderOf(posts[i]) < orderOf(posts[j])
	})
}

func orderOf(p models.Post) int {
	if p.SeriesOrder == nil {
		return 0
	}
	return *p.SeriesOrder
}

// continueSeries assembles the continuation context: the full ordered series,
// one batched fact-extraction call, per-post one-line summaries and the next
// position. A series id with zero posts is the degenerate empty continuation
// (order 1), not an error. Malformed extractor output degrades to empty fact
// bundles so the post is still generated, just without factual grounding.
func (e *Engine) continueSeries(ctx context.Context, userID, seriesID string) (*SeriesContext, error) {
	posts, err := e.SeriesPosts(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}

	bundles := []models.FactBundle{}
	if len(posts) > 0 {
		start := time.Now()
		bundles, err = e.extractor.ExtractFacts(ctx, posts)
		e.metrics.RecordTiming(metrics.OpFactExtraction, time.Since(start))
		if err != nil {
			if !errors.Is(err, ErrFactExtractionMalformed) {
				return nil, fmt.Errorf("extract facts: %w", err)
			}
			e.logger.Warn("fact extraction output malformed, continuing without facts",
				"user_id", userID, "series_id", seriesID, "posts", len(posts))
			bundles = models.EmptyFactBundles(len(posts))
		}
	}

	return &SeriesContext{
		SeriesID:   seriesID,
		NextOrder:  len(posts) + 1,
		PriorCount: len(posts),
		Summaries:  summarizeSeries(posts),
		FactDigest: formatFactDigest(bundles),
	}, nil
}

// summarizeSeries produces the one-line-per-post recap for the continuation
// prompt.
func summarizeSeries(posts []models.Post) []string {
	summaries := make([]string, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, fmt.Sprintf("Post %d: %s", orderOf(p), p.Topic))
	}
	return summaries
}

// formatFactDigest synthesizes all extracted facts into a single textual
// block for the continuation prompt.
func formatFactDigest(bundles []models.FactBundle) string {
	if len(bundles) == 0 {
		return "No previous facts available (this is the first post)."
	}

	var b strings.Builder
	wrote := false
	for i, facts := range bundles {
		if facts.Empty() {
			continue
		}
		if wrote {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### From Post %d\n", i+1)
		writeFactLine(&b, "Key Claims", facts.KeyClaims)
		writeFactLine(&b, "Personal Stories", facts.PersonalStories)
		writeFactLine(&b, "Lessons", facts.Lessons)
		writeFactLine(&b, "Questions", facts.Questions)
		wrote = true
	}

	if !wrote {
		return "No specific facts extracted."
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeFactLine(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**: %s\n", label, strings.Join(values, ", "))
}
