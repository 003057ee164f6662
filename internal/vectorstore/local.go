package vectorstore

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// #endregion imports

// #region local-store

// LocalStore is the file-persisted fallback backend: an append-only list of
// chunks held in memory and rewritten to a JSON array on every insert.
// A mutex serializes the read-modify-write so concurrent pipeline runs
// sharing one store cannot interleave partial writes.
type LocalStore struct {
	mu   sync.Mutex
	path string
	dim  int
	data []Chunk
}

// NewLocalStore loads any existing data file and returns a local store.
// dim is the fixed embedding width; a corrupt or missing file starts empty.
func NewLocalStore(path string, dim int) (*LocalStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("local store: invalid dimension %d", dim)
	}
	s := &LocalStore{path: path, dim: dim}
	if err := s.load(); err != nil {
		log.Printf("[VSTORE] load %s failed, starting empty: %v", path, err)
		s.data = nil
	}
	return s, nil
}

func (s *LocalStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var data []Chunk
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.data = data
	return nil
}

// persist rewrites the whole backing file. Caller holds s.mu.
func (s *LocalStore) persist() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("[VSTORE] marshal local data: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		log.Printf("[VSTORE] persist %s: %v", s.path, err)
	}
}

// #endregion local-store

// #region insert

// Insert appends a chunk and rewrites the backing file. IDs are assigned
// sequentially in insertion order.
func (s *LocalStore) Insert(_ context.Context, chunk Chunk) error {
	if len(chunk.Embedding) != s.dim {
		return fmt.Errorf("insert: got %d-dim vector, store is %d-dim: %w",
			len(chunk.Embedding), s.dim, ErrDimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk.ID = int64(len(s.data) + 1)
	s.data = append(s.data, chunk)
	s.persist()
	return nil
}

// #endregion insert

// #region search

// SearchSimilar returns up to limit chunks, most recently inserted first.
// No similarity computation happens here; recency stands in for relevance.
func (s *LocalStore) SearchSimilar(_ context.Context, query []float32, limit int) ([]Chunk, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("search: got %d-dim query, store is %d-dim: %w",
			len(query), s.dim, ErrDimension)
	}
	if limit <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data)
	if limit > n {
		limit = n
	}
	out := make([]Chunk, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.data[i])
	}
	return out, nil
}

// #endregion search

// #region unsupported

// Update is not part of the store contract.
func (s *LocalStore) Update(context.Context, int64, Chunk) error {
	return fmt.Errorf("update: %w", ErrNotSupported)
}

// Delete is not part of the store contract.
func (s *LocalStore) Delete(context.Context, int64) error {
	return fmt.Errorf("delete: %w", ErrNotSupported)
}

// #endregion unsupported

// #region stats

// Count returns the number of stored chunks.
func (s *LocalStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), nil
}

// Sources returns distinct source labels in first-seen order.
func (s *LocalStore) Sources(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.data {
		src := c.Source
		if src == "" {
			src = "unknown"
		}
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out, nil
}

// #endregion stats

// #region close

// Close is a no-op; the file is already current after every mutation.
func (s *LocalStore) Close() error {
	return nil
}

// #endregion close
