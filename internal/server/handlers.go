package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smahlberg/postmind/internal/generator"
	"github.com/smahlberg/postmind/internal/models"
)

// generateRequest is the wire shape of POST /api/generate. Optional fields
// use pointers so absent and zero can be told apart when applying defaults.
type generateRequest struct {
	UserID string `json:"user_id"`
	Topic  string `json:"topic"`

	Tone      string `json:"tone"`
	Audience  string `json:"audience"`
	Length    string `json:"length"`
	StyleMode string `json:"style_mode"`

	IncludeEmoji    *bool `json:"include_emoji"`
	IncludeHashtags *bool `json:"include_hashtags"`
	NumHashtags     *int  `json:"num_hashtags"`

	IsSeries bool    `json:"is_series"`
	SeriesID *string `json:"series_id"`
}

const (
	minTopicLen = 3
	maxTopicLen = 500
	maxHashtags = 10
)

// toPostRequest validates the wire request and applies defaults.
func (r generateRequest) toPostRequest() (generator.PostRequest, error) {
	if r.UserID == "" {
		return generator.PostRequest{}, fmt.Errorf("user_id is required")
	}
	if n := len(strings.TrimSpace(r.Topic)); n < minTopicLen || n > maxTopicLen {
		return generator.PostRequest{}, fmt.Errorf("topic must be %d-%d characters", minTopicLen, maxTopicLen)
	}

	req := generator.PostRequest{
		UserID:          r.UserID,
		Topic:           strings.TrimSpace(r.Topic),
		Tone:            models.ToneProfessional,
		Audience:        models.AudienceGeneral,
		Length:          models.LengthMedium,
		StyleMode:       models.StyleSimilar,
		IncludeEmoji:    true,
		IncludeHashtags: true,
		NumHashtags:     3,
		IsSeries:        r.IsSeries,
	}

	if r.Tone != "" {
		req.Tone = models.Tone(r.Tone)
		if !req.Tone.Valid() {
			return generator.PostRequest{}, fmt.Errorf("unknown tone: %q", r.Tone)
		}
	}
	if r.Audience != "" {
		req.Audience = models.Audience(r.Audience)
		if !req.Audience.Valid() {
			return generator.PostRequest{}, fmt.Errorf("unknown audience: %q", r.Audience)
		}
	}
	if r.Length != "" {
		req.Length = models.LengthClass(r.Length)
		if !req.Length.Valid() {
			return generator.PostRequest{}, fmt.Errorf("unknown length: %q", r.Length)
		}
	}
	if r.StyleMode != "" {
		req.StyleMode = models.StyleMode(r.StyleMode)
		if !req.StyleMode.Valid() {
			return generator.PostRequest{}, fmt.Errorf("unknown style_mode: %q", r.StyleMode)
		}
	}

	if r.IncludeEmoji != nil {
		req.IncludeEmoji = *r.IncludeEmoji
	}
	if r.IncludeHashtags != nil {
		req.IncludeHashtags = *r.IncludeHashtags
	}
	if r.NumHashtags != nil {
		if *r.NumHashtags < 0 || *r.NumHashtags > maxHashtags {
			return generator.PostRequest{}, fmt.Errorf("num_hashtags must be 0-%d", maxHashtags)
		}
		req.NumHashtags = *r.NumHashtags
	}

	// A blank series id means "start a new one".
	if r.SeriesID != nil && strings.TrimSpace(*r.SeriesID) != "" {
		sid := strings.TrimSpace(*r.SeriesID)
		req.SeriesID = &sid
	}

	return req, nil
}

func (s *Server) generate(c echo.Context) error {
	var wire generateRequest
	if err := c.Bind(&wire); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Error: "malformed request body", Detail: err.Error(), Code: "bad_request"})
	}

	req, err := wire.toPostRequest()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Error: "invalid request", Detail: err.Error(), Code: "validation"})
	}

	resp, err := s.service.Generate(c.Request().Context(), req)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// historyResponse is the wire shape of GET /api/history/:user_id.
type historyResponse struct {
	UserID     string               `json:"user_id"`
	TotalPosts int                  `json:"total_posts"`
	Posts      []models.PostSummary `json:"posts"`
}

func (s *Server) history(c echo.Context) error {
	userID := c.Param("user_id")

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorBody{
				Error: "invalid limit", Code: "validation"})
		}
		limit = n
	}

	posts, total, err := s.service.History(c.Request().Context(), userID, limit)
	if err != nil {
		return mapError(c, err)
	}
	if posts == nil {
		posts = []models.PostSummary{}
	}
	return c.JSON(http.StatusOK, historyResponse{UserID: userID, TotalPosts: total, Posts: posts})
}

// seriesResponse is the wire shape of GET /api/series/:user_id.
type seriesResponse struct {
	UserID      string                 `json:"user_id"`
	TotalSeries int                    `json:"total_series"`
	Series      []models.SeriesSummary `json:"series"`
}

func (s *Server) series(c echo.Context) error {
	userID := c.Param("user_id")

	series, err := s.service.Series(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	if series == nil {
		series = []models.SeriesSummary{}
	}
	return c.JSON(http.StatusOK, seriesResponse{UserID: userID, TotalSeries: len(series), Series: series})
}
