package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/smahlberg/postmind/internal/db"
	"github.com/smahlberg/postmind/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store keeping insertion order.
type fakeStore struct {
	mu    sync.Mutex
	posts []models.Post

	// scores maps post topic to the similarity score SimilaritySearch reports.
	scores map[string]float64

	failCreate error
	failSearch error
}

func newFakeStore() *fakeStore {
	return &fakeStore{scores: map[string]float64{}}
}

func (s *fakeStore) CreatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *post
	if p.ID == "" {
		p.ID = fmt.Sprintf("post-%d", len(s.posts)+1)
	}
	p.CreatedAt = time.Now()
	s.posts = append(s.posts, p)
	return &p, nil
}

func (s *fakeStore) PostsByUser(_ context.Context, userID string, filter db.PostFilter, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Post
	for _, p := range s.posts {
		if p.UserID != userID {
			continue
		}
		if filter.SeriesID != nil && (p.SeriesID == nil || *p.SeriesID != *filter.SeriesID) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) CountPostsByUser(ctx context.Context, userID string) (int, error) {
	posts, err := s.PostsByUser(ctx, userID, db.PostFilter{}, 1<<30)
	return len(posts), err
}

func (s *fakeStore) SimilaritySearch(_ context.Context, userID string, _ []float32, limit int) ([]models.RetrievedPost, error) {
	if s.failSearch != nil {
		return nil, s.failSearch
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RetrievedPost
	for _, p := range s.posts {
		if p.UserID != userID {
			continue
		}
		out = append(out, models.RetrievedPost{Post: p, SimilarityScore: s.scores[p.Topic]})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	fail  error
	calls int
}

func (e *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeExtractor struct {
	bundles []models.FactBundle
	err     error
	calls   int
	lastIn  int
}

func (f *fakeExtractor) ExtractFacts(_ context.Context, posts []models.Post) ([]models.FactBundle, error) {
	f.calls++
	f.lastIn = len(posts)
	if f.err != nil {
		return nil, f.err
	}
	return f.bundles, nil
}

func testEngine(store *fakeStore) (*Engine, *fakeEmbedder, *fakeExtractor) {
	emb := &fakeEmbedder{}
	ext := &fakeExtractor{}
	return NewEngine(EngineConfig{
		Store:               store,
		Embedder:            emb,
		FactExtractor:       ext,
		SimilarityThreshold: 0.75,
		RetrievalLimit:      3,
	}), emb, ext
}

func seedPost(t *testing.T, store *fakeStore, userID, topic string, seriesID *string, order *int) {
	t.Helper()
	_, err := store.CreatePost(context.Background(), &models.Post{
		UserID:      userID,
		Topic:       topic,
		Content:     "content about " + topic,
		Tone:        models.ToneProfessional,
		Audience:    models.AudienceGeneral,
		Length:      models.LengthMedium,
		Embedding:   []float32{0.1, 0.2, 0.3},
		SeriesID:    seriesID,
		SeriesOrder: order,
	})
	require.NoError(t, err)
}

func TestGenerateMemoryContextStandalone(t *testing.T) {
	store := newFakeStore()
	engine, _, _ := testEngine(store)
	ctx := context.Background()

	seedPost(t, store, "alice", "remote work", nil, nil)
	seedPost(t, store, "alice", "hiring juniors", nil, nil)
	store.scores["remote work"] = 0.88
	store.scores["hiring juniors"] = 0.42

	t.Run("similar mode builds style context", func(t *testing.T) {
		gc, err := engine.GenerateMemoryContext(ctx, ContextRequest{
			UserID: "alice", Topic: "working from home", StyleMode: models.StyleSimilar,
		})
		require.NoError(t, err)

		assert.Equal(t, KindStandaloneSimilar, gc.Kind)
		assert.True(t, gc.TopicExists)
		assert.Len(t, gc.Matches, 1)
		assert.Equal(t, "remote work", gc.Matches[0].Topic)
		require.NotNil(t, gc.Style)
		assert.True(t, gc.Style.HasExamples)
		assert.Len(t, gc.Style.Examples, 2)
		assert.Nil(t, gc.Avoid)
		assert.Nil(t, gc.SeriesID)
	})

	t.Run("different mode builds avoidance context", func(t *testing.T) {
		gc, err := engine.GenerateMemoryContext(ctx, ContextRequest{
			UserID: "alice", Topic: "working from home", StyleMode: models.StyleDifferent,
		})
		require.NoError(t, err)

		assert.Equal(t, KindStandaloneAvoid, gc.Kind)
		require.NotNil(t, gc.Avoid)
		assert.Len(t, gc.Avoid.Topics, 1)
		assert.Equal(t, "remote work", gc.Avoid.Topics[0].Topic)
		assert.Nil(t, gc.Style)
	})

	t.Run("user with no history gets fresh topic and no examples", func(t *testing.T) {
		gc, err := engine.GenerateMemoryContext(ctx, ContextRequest{
			UserID: "bob", Topic: "working from home", StyleMode: models.StyleSimilar,
		})
		require.NoError(t, err)

		assert.False(t, gc.TopicExists)
		assert.Empty(t, gc.Matches)
		assert.Equal(t, "This is a fresh topic for you!", gc.Message)
		require.NotNil(t, gc.Style)
		assert.False(t, gc.Style.HasExamples)
	})
}

func TestGenerateMemoryContextValidation(t *testing.T) {
	engine, _, _ := testEngine(newFakeStore())

	_, err := engine.GenerateMemoryContext(context.Background(), ContextRequest{Topic: "x"})
	assert.Error(t, err)

	_, err = engine.GenerateMemoryContext(context.Background(), ContextRequest{UserID: "alice"})
	assert.Error(t, err)
}

func TestGenerateMemoryContextEmbeddingFailure(t *testing.T) {
	store := newFakeStore()
	engine, emb, _ := testEngine(store)
	emb.fail = errors.New("connection refused")

	_, err := engine.GenerateMemoryContext(context.Background(), ContextRequest{
		UserID: "alice", Topic: "anything", StyleMode: models.StyleSimilar,
	})

	assert.ErrorIs(t, err, ErrEmbeddingFailure)
}

func TestGenerateMemoryContextSeriesStart(t *testing.T) {
	store := newFakeStore()
	engine, _, ext := testEngine(store)

	gc, err := engine.GenerateMemoryContext(context.Background(), ContextRequest{
		UserID: "alice", Topic: "scaling teams", StyleMode: models.StyleSimilar, IsSeries: true,
	})
	require.NoError(t, err)

	assert.Equal(t, KindSeriesStart, gc.Kind)
	require.NotNil(t, gc.SeriesID)
	assert.NotEmpty(t, *gc.SeriesID)
	require.NotNil(t, gc.SeriesOrder)
	assert.Equal(t, 1, *gc.SeriesOrder)
	assert.Contains(t, gc.Message, "Started new series (Post #1)")
	assert.Contains(t, gc.Message, *gc.SeriesID)
	assert.Zero(t, ext.calls, "series start must not extract facts")
}

func TestRecordPostRoundTrip(t *testing.T) {
	store := newFakeStore()
	engine, emb, _ := testEngine(store)
	ctx := context.Background()

	created, err := engine.RecordPost(ctx, RecordRequest{
		UserID:   "alice",
		Topic:    "remote work",
		Content:  "Working from home changed how I plan my day.",
		Tone:     models.ToneCasual,
		Audience: models.AudienceGeneral,
		Length:   models.LengthShort,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, emb.calls)

	posts, err := store.PostsByUser(ctx, "alice", db.PostFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "remote work", posts[0].Topic)
	assert.NotEmpty(t, posts[0].Embedding)
	assert.Nil(t, posts[0].SeriesOrder)
}

func TestRecordPostEmbeddingFailure(t *testing.T) {
	store := newFakeStore()
	engine, emb, _ := testEngine(store)
	emb.fail = errors.New("model unavailable")

	_, err := engine.RecordPost(context.Background(), RecordRequest{
		UserID: "alice", Topic: "t", Content: "c",
		Tone: models.ToneCasual, Audience: models.AudienceGeneral, Length: models.LengthShort,
	})

	assert.ErrorIs(t, err, ErrEmbeddingFailure)
	count, _ := store.CountPostsByUser(context.Background(), "alice")
	assert.Zero(t, count, "failed record must leave no trace")
}

func TestListUserHistory(t *testing.T) {
	store := newFakeStore()
	engine, _, _ := testEngine(store)
	ctx := context.Background()

	seedPost(t, store, "alice", "first", nil, nil)
	seedPost(t, store, "alice", "second", nil, nil)
	seedPost(t, store, "bob", "other user", nil, nil)

	// Force distinct timestamps so recency ordering is deterministic.
	store.posts[0].CreatedAt = time.Now().Add(-time.Hour)

	summaries, err := engine.ListUserHistory(ctx, "alice", 10)
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "second", summaries[0].Topic)
	assert.Equal(t, "first", summaries[1].Topic)
}

func TestListUserHistoryTruncatesPreview(t *testing.T) {
	store := newFakeStore()
	engine, _, _ := testEngine(store)
	ctx := context.Background()

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	_, err := store.CreatePost(ctx, &models.Post{
		UserID: "alice", Topic: "long one", Content: string(long),
		Tone: models.ToneCasual, Audience: models.AudienceGeneral, Length: models.LengthLong,
	})
	require.NoError(t, err)

	summaries, err := engine.ListUserHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Len(t, summaries[0].Preview, historyPreviewLen+3)
}

func TestListUserHistoryPreviewKeepsRunesIntact(t *testing.T) {
	store := newFakeStore()
	engine, _, _ := testEngine(store)
	ctx := context.Background()

	// A 4-byte emoji straddles the cut point: bytes 199..202.
	content := strings.Repeat("a", historyPreviewLen-1) + "🚀" + strings.Repeat("b", 100)
	_, err := store.CreatePost(ctx, &models.Post{
		UserID: "alice", Topic: "emoji heavy", Content: content,
		Tone: models.ToneCasual, Audience: models.AudienceGeneral, Length: models.LengthLong,
	})
	require.NoError(t, err)

	summaries, err := engine.ListUserHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	preview := summaries[0].Preview
	assert.True(t, utf8.ValidString(preview), "preview must never split a multi-byte rune")
	assert.Equal(t, strings.Repeat("a", historyPreviewLen-1)+"...", preview)
}

func TestListUserSeries(t *testing.T) {
	store := newFakeStore()
	engine, _, _ := testEngine(store)
	ctx := context.Background()

	s1, s2 := "series-1", "series-2"
	one, two := 1, 2
	seedPost(t, store, "alice", "intro", &s1, &one)
	seedPost(t, store, "alice", "deep dive", &s1, &two)
	seedPost(t, store, "alice", "solo post", nil, nil)
	seedPost(t, store, "alice", "other intro", &s2, &one)
	store.posts[0].CreatedAt = time.Now().Add(-time.Hour)

	summaries, err := engine.ListUserSeries(ctx, "alice")
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, s1, summaries[0].SeriesID)
	assert.Equal(t, 2, summaries[0].TotalPosts)
	assert.Equal(t, "intro", summaries[0].FirstTopic)
	assert.Equal(t, "deep dive", summaries[0].LastTopic)
	assert.Equal(t, s2, summaries[1].SeriesID)
	assert.Equal(t, 1, summaries[1].TotalPosts)
}
