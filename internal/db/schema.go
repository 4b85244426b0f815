package db

import "fmt"

// schemaSQL returns the schema initialization SQL with the HNSW index
// dimension injected. DEFINE ... IF NOT EXISTS keeps it idempotent.
func schemaSQL(dimension int) string {
	return fmt.Sprintf(`
    -- ==========================================================================
    -- POST TABLE (per-user long-term memory of generated posts)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS post SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON post TYPE string ASSERT $value != "";
    DEFINE FIELD IF NOT EXISTS topic ON post TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON post TYPE string;
    DEFINE FIELD IF NOT EXISTS tone ON post TYPE string;
    DEFINE FIELD IF NOT EXISTS audience ON post TYPE string;
    DEFINE FIELD IF NOT EXISTS length ON post TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON post TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS series_id ON post TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS series_order ON post TYPE option<int>;
    DEFINE FIELD IF NOT EXISTS created_at ON post TYPE datetime DEFAULT time::now();

    -- user_id is the primary access pattern; series_id the secondary filter
    DEFINE INDEX IF NOT EXISTS post_user ON post FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS post_user_series ON post FIELDS user_id, series_id;
    DEFINE INDEX IF NOT EXISTS post_embedding ON post FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
`, dimension)
}
