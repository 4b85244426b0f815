package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLength(t *testing.T) {
	v := NewValidator(100, 3000)

	tests := []struct {
		name  string
		post  string
		valid bool
		note  string
	}{
		{"too short", "tiny", false, "Post too short"},
		{"in bounds", strings.Repeat("a", 500), true, "Length OK"},
		{"too long", strings.Repeat("a", 3001), false, "Post too long"},
		{"exactly min", strings.Repeat("a", 100), true, "Length OK"},
		{"exactly max", strings.Repeat("a", 3000), true, "Length OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, note := v.ValidateLength(tt.post)
			assert.Equal(t, tt.valid, valid)
			assert.Contains(t, note, tt.note)
		})
	}
}

func TestValidateStructure(t *testing.T) {
	v := NewValidator(100, 3000)

	t.Run("well formed post has no issues", func(t *testing.T) {
		post := "Here is a strong opening hook for you.\n\nSome body content explaining the idea in depth.\n\nWhat do you think?"
		assert.Empty(t, v.ValidateStructure(post))
	})

	t.Run("single line flags missing body", func(t *testing.T) {
		issues := v.ValidateStructure("Just one line here, nothing else.")
		assert.Contains(t, strings.Join(issues, " "), "hook + body")
	})

	t.Run("short hook flagged", func(t *testing.T) {
		issues := v.ValidateStructure("Hi\n\nA full body paragraph follows the greeting.\n\nThoughts?")
		assert.Contains(t, strings.Join(issues, " "), "Hook")
	})

	t.Run("missing call to action flagged", func(t *testing.T) {
		issues := v.ValidateStructure("A perfectly good hook line.\n\nAnd a body that just ends flat.")
		assert.Contains(t, strings.Join(issues, " "), "call-to-action")
	})
}

func TestValidatePlatformFit(t *testing.T) {
	v := NewValidator(100, 3000)

	t.Run("clean post passes", func(t *testing.T) {
		assert.Empty(t, v.ValidatePlatformFit("A calm, thoughtful post about engineering culture."))
	})

	t.Run("external link flagged, linkedin link allowed", func(t *testing.T) {
		assert.NotEmpty(t, v.ValidatePlatformFit("Check out https://example.com/offer today"))
		assert.Empty(t, v.ValidatePlatformFit("See my profile at https://www.linkedin.com/in/someone"))
	})

	t.Run("spam phrases flagged", func(t *testing.T) {
		assert.NotEmpty(t, v.ValidatePlatformFit("Limited time offer, DM me for details"))
	})

	t.Run("excessive caps flagged", func(t *testing.T) {
		issues := v.ValidatePlatformFit("THIS POST IS VERY LOUD INDEED")
		assert.Contains(t, strings.Join(issues, " "), "ALL CAPS")
	})

	t.Run("emoji flood flagged", func(t *testing.T) {
		issues := v.ValidatePlatformFit("Great news " + strings.Repeat("🚀", 11))
		assert.Contains(t, strings.Join(issues, " "), "emojis")
	})
}

func TestValidateOnlyLengthIsFatal(t *testing.T) {
	v := NewValidator(10, 3000)

	// Structurally weak but long enough: valid=false overall, length ok.
	result := v.Validate("Short hook.\nBody without any closing engagement at all today.")

	assert.True(t, result.LengthValid)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)
}
