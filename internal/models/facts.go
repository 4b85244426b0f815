package models

// FactBundle holds the structured facts extracted from a single series post.
// All lists may be empty; an all-empty bundle is the graceful-degradation
// substitute when extraction output cannot be parsed.
type FactBundle struct {
	KeyClaims       []string `json:"key_claims"`
	PersonalStories []string `json:"personal_stories"`
	Lessons         []string `json:"lessons"`
	Questions       []string `json:"questions"`
}

// Empty reports whether the bundle carries no facts at all.
func (b FactBundle) Empty() bool {
	return len(b.KeyClaims) == 0 && len(b.PersonalStories) == 0 &&
		len(b.Lessons) == 0 && len(b.Questions) == 0
}

// EmptyFactBundles returns n all-empty bundles, one per post.
func EmptyFactBundles(n int) []FactBundle {
	bundles := make([]FactBundle, n)
	return bundles
}
