package internal

import (
	"context"
	"time"
)

// Scored pairs a stored record with its similarity to a query vector.
type Scored struct {
	Record ContentVector
	Score  float64
}

// IDEmbedding is a full-scan row: just the id and its vector.
type IDEmbedding struct {
	ID        string
	Embedding []float32
}

// SimilarFilter narrows a FindSimilar scan. Zero values mean "no filter".
type SimilarFilter struct {
	ExcludeID string
	Type      ContentType
}

// VectorStore is the durable collection of ContentVector records. Writes are
// serialized by the backing store; reads scan a consistent snapshot and may
// run concurrently.
type VectorStore interface {
	// Upsert writes the record keyed by ID, fully replacing an existing
	// record. The original insertion sequence and CreatedAt are preserved
	// across replaces so that similarity tie-breaks stay stable.
	Upsert(ctx context.Context, rec ContentVector) error

	// Get returns the record, or (nil, nil) when absent.
	Get(ctx context.Context, id string) (*ContentVector, error)

	// Delete reports whether a record existed and was removed. Idempotent.
	Delete(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int, error)

	// ListEmbeddings returns every (id, vector) pair in insertion order.
	ListEmbeddings(ctx context.Context) ([]IDEmbedding, error)

	// FindSimilar scores every stored vector against query by cosine
	// similarity and returns the topK best in descending score order. Ties
	// break by insertion order. A query of the wrong dimension fails with
	// ErrDimensionMismatch.
	FindSimilar(ctx context.Context, query []float32, topK int, filter SimilarFilter) ([]Scored, error)

	// GetRecent returns records created within the trailing window, newest
	// first.
	GetRecent(ctx context.Context, window time.Duration) ([]ContentVector, error)

	// Dimension is the vector dimension fixed at store creation.
	Dimension() int

	Close() error
}
