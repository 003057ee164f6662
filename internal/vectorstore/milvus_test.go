package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// #region fakes

// unreachableClient fails every remote call, driving the store into its
// permanent degrade path. Methods the store never calls are inherited from
// the embedded interface and stay unimplemented.
type unreachableClient struct {
	client.Client
}

func (unreachableClient) Insert(context.Context, string, string, ...entity.Column) (entity.Column, error) {
	return nil, errors.New("remote unavailable")
}

func (unreachableClient) Search(context.Context, string, []string, string, []string,
	[]entity.Vector, string, entity.MetricType, int, entity.SearchParam,
	...client.SearchQueryOptionFunc) ([]client.SearchResult, error) {
	return nil, errors.New("remote unavailable")
}

func (unreachableClient) GetCollectionStatistics(context.Context, string) (map[string]string, error) {
	return nil, errors.New("remote unavailable")
}

func (unreachableClient) Close() error {
	return nil
}

// #endregion fakes

func newFailingMilvusStore(t *testing.T) *MilvusStore {
	t.Helper()
	local, err := NewLocalStore(filepath.Join(t.TempDir(), "vectors.json"), testDim)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return &MilvusStore{
		c:          unreachableClient{},
		collection: "test_collection",
		dim:        testDim,
		fallback:   local,
	}
}

func TestMilvusStore_ConcurrentInsertsDegradeOnce(t *testing.T) {
	s := newFailingMilvusStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Insert(ctx, Chunk{
				Content:   fmt.Sprintf("chunk %d", i),
				Embedding: vec(float32(i)),
				Source:    "test",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Insert %d: %v", i, err)
		}
	}
	if s.client() != nil {
		t.Error("store did not degrade after remote failures")
	}
	n, err := s.fallback.Count(ctx)
	if err != nil || n != workers {
		t.Errorf("fallback count: got %d (%v), want %d", n, err, workers)
	}
}

func TestMilvusStore_SearchDegradesToFallback(t *testing.T) {
	s := newFailingMilvusStore(t)
	ctx := context.Background()

	if err := s.fallback.Insert(ctx, Chunk{Content: "kept", Embedding: vec(1)}); err != nil {
		t.Fatalf("seed fallback: %v", err)
	}

	got, err := s.SearchSimilar(ctx, vec(0), 5)
	if err != nil {
		t.Fatalf("SearchSimilar: %v", err)
	}
	if len(got) != 1 || got[0].Content != "kept" {
		t.Errorf("results: %+v", got)
	}
	if s.client() != nil {
		t.Error("store did not degrade after remote search failure")
	}

	// Later calls route straight to the fallback.
	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count after degrade: got %d (%v), want 1", n, err)
	}
	sources, err := s.Sources(ctx)
	if err != nil || len(sources) != 1 {
		t.Errorf("Sources after degrade: got %v (%v)", sources, err)
	}
}

func TestMilvusStore_DimensionChecks(t *testing.T) {
	s := newFailingMilvusStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, Chunk{Embedding: []float32{1}}); !errors.Is(err, ErrDimension) {
		t.Errorf("Insert wrong dim: got %v, want ErrDimension", err)
	}
	if _, err := s.SearchSimilar(ctx, []float32{1}, 5); !errors.Is(err, ErrDimension) {
		t.Errorf("Search wrong dim: got %v, want ErrDimension", err)
	}
}
