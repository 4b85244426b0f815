package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smahlberg/postmind/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// PostFilter carries the optional equality filters for PostsByUser.
type PostFilter struct {
	SeriesID *string
}

// CreatePost persists a fully formed post record (embedding already computed)
// atomically. A fresh unique id is assigned when the record has none. Posts
// are write-once: this is the only mutator in the package.
func (c *Client) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	sql := `
		CREATE type::record("post", $id) CONTENT {
			user_id: $user_id,
			topic: $topic,
			content: $content,
			tone: $tone,
			audience: $audience,
			length: $length,
			embedding: $embedding,
			series_id: $series_id,
			series_order: $series_order
		} RETURN AFTER
	`

	results, err := surrealdb.Query[[]models.Post](ctx, c.db, sql, map[string]any{
		"id":           post.ID,
		"user_id":      post.UserID,
		"topic":        post.Topic,
		"content":      post.Content,
		"tone":         string(post.Tone),
		"audience":     string(post.Audience),
		"length":       string(post.Length),
		"embedding":    post.Embedding,
		"series_id":    post.SeriesID,
		"series_order": post.SeriesOrder,
	})
	if err != nil {
		return nil, storeErr("create post", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, storeErr("create post", fmt.Errorf("no result returned"))
	}
	return &(*results)[0].Result[0], nil
}

// PostsByUser returns up to limit posts owned by userID, optionally filtered
// by series id. Results are metadata-filtered only, with no ranking; callers
// re-sort by series_order or created_at as needed.
func (c *Client) PostsByUser(ctx context.Context, userID string, filter PostFilter, limit int) ([]models.Post, error) {
	seriesClause := ""
	vars := map[string]any{
		"user_id": userID,
		"limit":   limit,
	}
	if filter.SeriesID != nil {
		seriesClause = "AND series_id = $series_id"
		vars["series_id"] = *filter.SeriesID
	}

	sql := fmt.Sprintf(`
		SELECT * OMIT embedding FROM post
		WHERE user_id = $user_id %s
		LIMIT $limit
	`, seriesClause)

	results, err := surrealdb.Query[[]models.Post](ctx, c.db, sql, vars)
	if err != nil {
		return nil, storeErr("posts by user", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Post{}, nil
	}
	return (*results)[0].Result, nil
}

// CountPostsByUser returns the exact number of posts owned by userID.
func (c *Client) CountPostsByUser(ctx context.Context, userID string) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `
		SELECT count() AS count FROM post WHERE user_id = $user_id GROUP ALL
	`, map[string]any{"user_id": userID})
	if err != nil {
		return 0, storeErr("count posts", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// SimilaritySearch returns the user's top-limit posts by descending cosine
// similarity to the query vector. The user scope is applied BEFORE ranking:
// the similarity computation never sees another user's records.
func (c *Client) SimilaritySearch(ctx context.Context, userID string, vector []float32, limit int) ([]models.RetrievedPost, error) {
	sql := `
		SELECT *, vector::similarity::cosine(embedding, $emb) AS similarity_score
		FROM post
		WHERE user_id = $user_id
		ORDER BY similarity_score DESC
		LIMIT $limit
	`

	results, err := surrealdb.Query[[]models.RetrievedPost](ctx, c.db, sql, map[string]any{
		"user_id": userID,
		"emb":     vector,
		"limit":   limit,
	})
	if err != nil {
		return nil, storeErr("similarity search", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.RetrievedPost{}, nil
	}
	return (*results)[0].Result, nil
}
