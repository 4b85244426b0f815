package generator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Validator checks generated posts for length, structure and platform fit.
// Validation is advisory except for length: only a length violation fails
// generation, everything else is reported back as issues.
type Validator struct {
	minLength int
	maxLength int
}

// NewValidator creates a validator with the given length bounds.
func NewValidator(minLength, maxLength int) *Validator {
	return &Validator{minLength: minLength, maxLength: maxLength}
}

// ValidationResult is the outcome of all checks on one post.
type ValidationResult struct {
	Valid       bool     `json:"is_valid"`
	LengthValid bool     `json:"length_valid"`
	LengthNote  string   `json:"length_note"`
	Issues      []string `json:"issues"`
}

var (
	urlPattern = regexp.MustCompile(`(?i)https?://([^/\s]+)`)

	spamPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(buy now|click here|limited time)\b`),
		regexp.MustCompile(`(?i)\b(dm me|message me for)\b`),
	}
)

var ctaIndicators = []string{
	"?", "comment", "share", "thoughts", "agree", "disagree",
	"let me know", "what do you", "how do you", "have you",
}

// ValidateLength checks the post against the configured bounds.
func (v *Validator) ValidateLength(post string) (bool, string) {
	n := len(post)
	if n < v.minLength {
		return false, fmt.Sprintf("Post too short (%d chars). Minimum is %d.", n, v.minLength)
	}
	if n > v.maxLength {
		return false, fmt.Sprintf("Post too long (%d chars). Maximum is %d.", n, v.maxLength)
	}
	return true, fmt.Sprintf("Length OK (%d chars)", n)
}

// ValidateStructure checks for a hook, a body and some closing engagement.
func (v *Validator) ValidateStructure(post string) []string {
	var issues []string

	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(post), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}

	if len(lines) < 2 {
		issues = append(issues, "Post needs more content (hook + body minimum)")
	}
	if len(lines) > 0 && len(lines[0]) < 10 {
		issues = append(issues, "Hook (first line) is too short")
	}

	hasCTA := false
	if len(lines) > 0 {
		last := strings.ToLower(lines[len(lines)-1])
		for _, indicator := range ctaIndicators {
			if strings.Contains(last, indicator) {
				hasCTA = true
				break
			}
		}
	}
	if !hasCTA {
		issues = append(issues, "Consider adding a call-to-action or question at the end")
	}

	return issues
}

// ValidatePlatformFit checks for spammy phrasing, shouting and emoji excess.
func (v *Validator) ValidatePlatformFit(post string) []string {
	var issues []string

	for _, match := range urlPattern.FindAllStringSubmatch(post, -1) {
		host := strings.ToLower(match[1])
		if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
			issues = append(issues, fmt.Sprintf("Contains external link: %s", match[0]))
		}
	}

	for _, pattern := range spamPatterns {
		if pattern.MatchString(post) {
			issues = append(issues, fmt.Sprintf("Contains potentially problematic content: %s", pattern))
		}
	}

	caps := 0
	for _, word := range strings.Fields(post) {
		if len(word) > 2 && word == strings.ToUpper(word) && strings.ContainsFunc(word, unicode.IsLetter) {
			caps++
		}
	}
	if caps > 3 {
		issues = append(issues, "Too many ALL CAPS words - may seem aggressive")
	}

	if countEmojis(post) > 10 {
		issues = append(issues, "Too many emojis - may reduce professional appearance")
	}

	return issues
}

// Validate runs all checks.
func (v *Validator) Validate(post string) ValidationResult {
	lengthValid, lengthNote := v.ValidateLength(post)

	issues := append(v.ValidateStructure(post), v.ValidatePlatformFit(post)...)

	return ValidationResult{
		Valid:       lengthValid && len(issues) == 0,
		LengthValid: lengthValid,
		LengthNote:  lengthNote,
		Issues:      issues,
	}
}

func countEmojis(post string) int {
	count := 0
	for _, r := range post {
		switch {
		case r >= 0x1F300 && r <= 0x1F6FF, // pictographs, transport
			r >= 0x1F900 && r <= 0x1F9FF, // supplemental symbols
			r >= 0x2600 && r <= 0x27BF,   // misc symbols, dingbats
			r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
			count++
		}
	}
	return count
}
