package vectorstore

// #region imports
import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// #endregion imports

// #region milvus-store

// MilvusStore is the remote ANN-indexed backend. Any remote failure, at
// setup or at call time, flips the store permanently into its local
// fallback for the rest of the process lifetime; there is no reconnect.
type MilvusStore struct {
	mu         sync.Mutex
	c          client.Client
	collection string
	dim        int
	fallback   *LocalStore
	degraded   bool
}

// NewMilvusStore connects to Milvus, creates or reuses the named collection
// (IVF_FLAT index over the embedding field, L2 metric, nlist=128), and loads
// it. On any setup failure the returned store starts degraded.
func NewMilvusStore(ctx context.Context, addr, collection string, dim int, fallback *LocalStore) *MilvusStore {
	s := &MilvusStore{collection: collection, dim: dim, fallback: fallback}

	c, err := client.NewClient(ctx, client.Config{Address: addr})
	if err != nil {
		log.Printf("[VSTORE] milvus connect %s: %v, using local fallback", addr, err)
		s.degraded = true
		return s
	}
	s.c = c

	if err := s.setupCollection(ctx); err != nil {
		log.Printf("[VSTORE] milvus setup: %v, using local fallback", err)
		s.degrade()
		return s
	}
	log.Printf("[VSTORE] connected to milvus at %s, collection %q", addr, collection)
	return s
}

func (s *MilvusStore) setupCollection(ctx context.Context) error {
	has, err := s.c.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("has collection: %w", err)
	}
	if !has {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Research documents collection",
			AutoID:         true,
			Fields: []*entity.Field{
				{Name: "id", DataType: entity.FieldTypeInt64, PrimaryKey: true, AutoID: true},
				{Name: "content", DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "65535"}},
				{Name: "embedding", DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{entity.TypeParamDim: strconv.Itoa(s.dim)}},
				{Name: "source", DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "256"}},
				{Name: "timestamp", DataType: entity.FieldTypeInt64},
			},
		}
		if err := s.c.CreateCollection(ctx, schema, 1); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
		if err != nil {
			return fmt.Errorf("build index params: %w", err)
		}
		if err := s.c.CreateIndex(ctx, s.collection, "embedding", idx, false); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	if err := s.c.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

// degrade flips the store into local-fallback mode. Caller need not hold s.mu.
func (s *MilvusStore) degrade() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return
	}
	s.degraded = true
	if s.c != nil {
		s.c.Close()
		s.c = nil
	}
}

// client snapshots the remote handle under the mutex; nil once degraded.
// Callers hold the snapshot for the whole remote call so degrade() can
// never nil the handle out from under them.
func (s *MilvusStore) client() client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return nil
	}
	return s.c
}

// #endregion milvus-store

// #region insert

// Insert writes a chunk to the remote collection. A remote failure is
// logged, the store degrades, and the chunk goes to the local fallback
// instead; the pipeline never sees the error.
func (s *MilvusStore) Insert(ctx context.Context, chunk Chunk) error {
	if len(chunk.Embedding) != s.dim {
		return fmt.Errorf("insert: got %d-dim vector, store is %d-dim: %w",
			len(chunk.Embedding), s.dim, ErrDimension)
	}
	c := s.client()
	if c == nil {
		return s.fallback.Insert(ctx, chunk)
	}

	_, err := c.Insert(ctx, s.collection, "",
		entity.NewColumnVarChar("content", []string{chunk.Content}),
		entity.NewColumnFloatVector("embedding", s.dim, [][]float32{chunk.Embedding}),
		entity.NewColumnVarChar("source", []string{chunk.Source}),
		entity.NewColumnInt64("timestamp", []int64{chunk.Timestamp}),
	)
	if err != nil {
		log.Printf("[VSTORE] milvus insert: %v, degrading to local fallback", err)
		s.degrade()
		return s.fallback.Insert(ctx, chunk)
	}
	if err := c.Flush(ctx, s.collection, false); err != nil {
		log.Printf("[VSTORE] milvus flush: %v", err)
	}
	return nil
}

// #endregion insert

// #region search

// SearchSimilar runs an ANN query, nearest first. On remote failure the
// store degrades and the local most-recent-first approximation answers.
func (s *MilvusStore) SearchSimilar(ctx context.Context, query []float32, limit int) ([]Chunk, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("search: got %d-dim query, store is %d-dim: %w",
			len(query), s.dim, ErrDimension)
	}
	c := s.client()
	if c == nil {
		return s.fallback.SearchSimilar(ctx, query, limit)
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(10)
	if err != nil {
		return nil, fmt.Errorf("search params: %w", err)
	}
	results, err := c.Search(ctx, s.collection, nil, "",
		[]string{"content", "source", "timestamp"},
		[]entity.Vector{entity.FloatVector(query)},
		"embedding", entity.L2, limit, sp,
	)
	if err != nil {
		log.Printf("[VSTORE] milvus search: %v, degrading to local fallback", err)
		s.degrade()
		return s.fallback.SearchSimilar(ctx, query, limit)
	}

	var out []Chunk
	for _, res := range results {
		contents, _ := res.Fields.GetColumn("content").(*entity.ColumnVarChar)
		sources, _ := res.Fields.GetColumn("source").(*entity.ColumnVarChar)
		timestamps, _ := res.Fields.GetColumn("timestamp").(*entity.ColumnInt64)
		for i := 0; i < res.ResultCount; i++ {
			var c Chunk
			if contents != nil {
				c.Content, _ = contents.ValueByIdx(i)
			}
			if sources != nil {
				c.Source, _ = sources.ValueByIdx(i)
			}
			if timestamps != nil {
				c.Timestamp, _ = timestamps.ValueByIdx(i)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// #endregion search

// #region unsupported

// Update is not part of the store contract.
func (s *MilvusStore) Update(context.Context, int64, Chunk) error {
	return fmt.Errorf("update: %w", ErrNotSupported)
}

// Delete is not part of the store contract.
func (s *MilvusStore) Delete(context.Context, int64) error {
	return fmt.Errorf("delete: %w", ErrNotSupported)
}

// #endregion unsupported

// #region stats

// Count reads the remote row count, or the fallback's when degraded.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	c := s.client()
	if c == nil {
		return s.fallback.Count(ctx)
	}
	stats, err := c.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		log.Printf("[VSTORE] milvus statistics: %v", err)
		return 0, nil
	}
	n, _ := strconv.ParseInt(stats["row_count"], 10, 64)
	return n, nil
}

// Sources has no remote aggregation path; against a live remote backend it
// returns nothing. The fallback answers when degraded.
func (s *MilvusStore) Sources(ctx context.Context) ([]string, error) {
	if s.client() == nil {
		return s.fallback.Sources(ctx)
	}
	return nil, nil
}

// #endregion stats

// #region close

// Close releases the remote connection if one is still held.
func (s *MilvusStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		err := s.c.Close()
		s.c = nil
		return err
	}
	return nil
}

// #endregion close

// #region open

// Open applies the static backend switch: a remote-backed store when
// useMilvus is set, otherwise the local JSON fallback alone.
func Open(ctx context.Context, useMilvus bool, addr, collection string, dim int, fallbackPath string) (Store, error) {
	local, err := NewLocalStore(fallbackPath, dim)
	if err != nil {
		return nil, err
	}
	if !useMilvus {
		log.Printf("[VSTORE] milvus disabled, using local store at %s", fallbackPath)
		return local, nil
	}
	return NewMilvusStore(ctx, addr, collection, dim, local), nil
}

// #endregion open
