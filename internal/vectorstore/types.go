package vectorstore

// #region imports
import (
	"context"
	"errors"
)

// #endregion imports

// #region chunk

// Chunk is the unit of storage and retrieval: a bounded slice of source text
// with its embedding vector. Immutable once stored.
type Chunk struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	Source    string    `json:"source"`
	Timestamp int64     `json:"timestamp"`
}

// #endregion chunk

// #region errors

var (
	// ErrNotSupported marks operations the store contract deliberately
	// excludes (update, delete). Distinct from backend unavailability.
	ErrNotSupported = errors.New("vectorstore: operation not supported")

	// ErrDimension is returned when an inserted or query vector does not
	// match the store's configured embedding width.
	ErrDimension = errors.New("vectorstore: embedding dimension mismatch")
)

// #endregion errors

// #region store-interface

// Store is the contract both vector backends satisfy.
//
// Insert absorbs backend failures (logged, not propagated) so a degraded
// backend never halts the pipeline; it only returns an error for a
// dimension-mismatched vector, which is a caller bug.
//
// SearchSimilar is nearest-first on the remote backend. On the local
// fallback it is most-recent-first capped at limit, an approximation, not
// similarity search.
type Store interface {
	Insert(ctx context.Context, chunk Chunk) error
	SearchSimilar(ctx context.Context, query []float32, limit int) ([]Chunk, error)
	Update(ctx context.Context, id int64, chunk Chunk) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Sources(ctx context.Context) ([]string, error)
	Close() error
}

// #endregion store-interface
