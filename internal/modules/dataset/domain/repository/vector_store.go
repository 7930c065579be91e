package repository

import "context"

// VectorUpsertItem is one (id, vector, metadata) triple bound for the index.
// MetadataJSON is the sanitized flat record serialized as JSON; it always
// contains "table" and "text".
type VectorUpsertItem struct {
	ID           string
	Vector       []float32
	TableName    string
	MetadataJSON string
}

// VectorSearchHit is a similarity match in the store's own ranked order.
type VectorSearchHit struct {
	ID           string
	Score        float32
	TableName    string
	MetadataJSON string
}

// VectorStore abstracts the vector index service. Each call is assumed
// atomic; there is no cross-call transaction and no retry.
type VectorStore interface {
	// EnsureCollection creates the fixed-dimensionality cosine collection
	// if it does not exist yet. Idempotent; an existing collection of the
	// same name is reused, never recreated.
	EnsureCollection(ctx context.Context) error

	Upsert(ctx context.Context, items []VectorUpsertItem) ([]string, error)

	// Search runs a nearest-neighbour query. expr is an optional boolean
	// filter in the store's expression language ("" disables filtering).
	Search(ctx context.Context, vector []float32, topK int, expr string) ([]VectorSearchHit, error)
}
