// Package models defines data structures for the postmind memory engine.
package models

import (
	"fmt"
	"time"
)

// Tone is the enumerated voice of a post.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneStorytelling  Tone = "storytelling"
	ToneInspirational Tone = "inspirational"
	ToneEducational   Tone = "educational"
	ToneHumorous      Tone = "humorous"
)

// Audience is the enumerated target audience of a post.
type Audience string

const (
	AudienceRecruiters Audience = "recruiters"
	AudienceEngineers  Audience = "engineers"
	AudienceFounders   Audience = "founders"
	AudienceMarketers  Audience = "marketers"
	AudienceGeneral    Audience = "general"
	AudienceStudents   Audience = "students"
)

// LengthClass is the enumerated length category of a post.
type LengthClass string

const (
	LengthShort  LengthClass = "short"  // ~100-300 characters
	LengthMedium LengthClass = "medium" // ~300-800 characters
	LengthLong   LengthClass = "long"   // ~800-2000 characters
)

// StyleMode controls how retrieved memory is used during generation.
type StyleMode string

const (
	// StyleSimilar matches the user's established writing style.
	StyleSimilar StyleMode = "similar"

	// StyleDifferent steers away from previously used topics and patterns.
	StyleDifferent StyleMode = "different"
)

var (
	validTones = map[Tone]bool{
		ToneProfessional: true, ToneCasual: true, ToneStorytelling: true,
		ToneInspirational: true, ToneEducational: true, ToneHumorous: true,
	}
	validAudiences = map[Audience]bool{
		AudienceRecruiters: true, AudienceEngineers: true, AudienceFounders: true,
		AudienceMarketers: true, AudienceGeneral: true, AudienceStudents: true,
	}
	validLengths = map[LengthClass]bool{
		LengthShort: true, LengthMedium: true, LengthLong: true,
	}
	validStyleModes = map[StyleMode]bool{
		StyleSimilar: true, StyleDifferent: true,
	}
)

// Valid reports whether the tone is a known value.
func (t Tone) Valid() bool { return validTones[t] }

// Valid reports whether the audience is a known value.
func (a Audience) Valid() bool { return validAudiences[a] }

// Valid reports whether the length class is a known value.
func (l LengthClass) Valid() bool { return validLengths[l] }

// Valid reports whether the style mode is a known value.
func (m StyleMode) Valid() bool { return validStyleModes[m] }

// Post is the atomic unit of memory: one generated post with its embedding
// and style metadata. Posts are write-once; there are no update or delete
// operations anywhere in the engine.
type Post struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Topic     string      `json:"topic"`
	Content   string      `json:"content"`
	Tone      Tone        `json:"tone"`
	Audience  Audience    `json:"audience"`
	Length    LengthClass `json:"length"`
	Embedding []float32   `json:"embedding,omitempty"`

	// Series fields are nil for standalone posts. SeriesOrder is 1-based,
	// strictly increasing and gapless within a (user_id, series_id) pair.
	SeriesID    *string `json:"series_id,omitempty"`
	SeriesOrder *int    `json:"series_order,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Document returns the combined text representation embedded at write time.
// Retrieval queries embed the topic alone; the asymmetry is accepted so that
// matches reflect both subject and style of the stored post.
func (p *Post) Document() string {
	return fmt.Sprintf("Topic: %s\n\nPost: %s", p.Topic, p.Content)
}

// Validate checks the invariants the store boundary enforces.
func (p *Post) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if p.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if p.Content == "" {
		return fmt.Errorf("content is required")
	}
	if !p.Tone.Valid() {
		return fmt.Errorf("unknown tone: %q", p.Tone)
	}
	if !p.Audience.Valid() {
		return fmt.Errorf("unknown audience: %q", p.Audience)
	}
	if !p.Length.Valid() {
		return fmt.Errorf("unknown length: %q", p.Length)
	}
	if p.SeriesID == nil && p.SeriesOrder != nil {
		return fmt.Errorf("series_order set without series_id")
	}
	if p.SeriesOrder != nil && *p.SeriesOrder < 1 {
		return fmt.Errorf("series_order must be positive, got %d", *p.SeriesOrder)
	}
	return nil
}

// RetrievedPost is a post annotated with its similarity score in [0,1].
// Produced only by similarity queries, never persisted.
type RetrievedPost struct {
	Post
	SimilarityScore float64 `json:"similarity_score"`
}

// PostSummary is a compact view of a post for history listings.
type PostSummary struct {
	PostID    string    `json:"post_id"`
	Topic     string    `json:"topic"`
	Preview   string    `json:"post_preview"`
	Tone      Tone      `json:"tone"`
	Audience  Audience  `json:"audience"`
	CreatedAt time.Time `json:"created_at"`
}

// SeriesSummary describes one ordered chain of posts for reporting views.
type SeriesSummary struct {
	SeriesID   string    `json:"series_id"`
	TotalPosts int       `json:"total_posts"`
	FirstTopic string    `json:"first_topic"`
	LastTopic  string    `json:"last_topic"`
	CreatedAt  time.Time `json:"created_at"`
}
