package knowledge

// #region imports
import (
	"context"
	"log"
	"time"

	"github.com/aletheia-lab/researchd/internal/config"
	"github.com/aletheia-lab/researchd/internal/vectorstore"
)

// #endregion imports

// #region types

// Embedder abstracts the embedding model call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Metadata annotates a knowledge item.
type Metadata struct {
	Source string
	Type   string
	Topic  string
	Depth  string
}

// Entry is a knowledge search hit.
type Entry struct {
	Content   string `json:"content"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// Stats summarizes the knowledge base. Against a live remote backend,
// TotalKnowledge comes from the collection row count and Sources stays
// empty: there is no remote aggregation over source labels.
type Stats struct {
	TotalKnowledge int64     `json:"total_knowledge"`
	Sources        []string  `json:"sources"`
	LastUpdated    time.Time `json:"last_updated"`
}

// #endregion types

// #region stage

// Stage is the terminal sink of the pipeline: finished reports land here as
// knowledge items, and the knowledge base can be queried and summarized.
type Stage struct {
	embedder Embedder
	store    vectorstore.Store
	caps     config.Capability
	dim      int
}

// NewStage wires a knowledge stage. embedder may be nil when the
// embeddings capability is off.
func NewStage(embedder Embedder, store vectorstore.Store, caps config.Capability, cfg config.Config) *Stage {
	return &Stage{
		embedder: embedder,
		store:    store,
		caps:     caps,
		dim:      cfg.EmbeddingDim,
	}
}

// #endregion stage

// #region add

// AddKnowledge inserts one knowledge item, embedding the content when the
// capability allows and substituting a zero vector otherwise. The source
// label defaults to "unknown".
func (s *Stage) AddKnowledge(ctx context.Context, content string, meta Metadata) error {
	source := meta.Source
	if source == "" {
		source = "unknown"
	}
	if err := s.store.Insert(ctx, vectorstore.Chunk{
		Content:   content,
		Embedding: s.embed(ctx, content),
		Source:    source,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		return err
	}
	log.Printf("[KNOW] added knowledge source=%q chars=%d", source, len(content))
	return nil
}

func (s *Stage) embed(ctx context.Context, text string) []float32 {
	if s.caps.Embeddings && s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, text)
		if err == nil {
			return vec
		}
		log.Printf("[KNOW] embed: %v, substituting zero vector", err)
	}
	return make([]float32, s.dim)
}

// #endregion add

// #region search

// SearchKnowledge retrieves items related to the query and reshapes them
// into entries. A failed query embedding falls back to a zero vector, which
// on the local backend still returns the most recent items.
func (s *Stage) SearchKnowledge(ctx context.Context, query string, limit int) ([]Entry, error) {
	hits, err := s.store.SearchSimilar(ctx, s.embed(ctx, query), limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(hits))
	for _, h := range hits {
		entries = append(entries, Entry{
			Content:   h.Content,
			Source:    h.Source,
			Timestamp: h.Timestamp,
		})
	}
	return entries, nil
}

// #endregion search

// #region stats

// GetStats reports knowledge-base aggregates from the backing store.
func (s *Stage) GetStats(ctx context.Context) Stats {
	count, err := s.store.Count(ctx)
	if err != nil {
		log.Printf("[KNOW] count: %v", err)
	}
	sources, err := s.store.Sources(ctx)
	if err != nil {
		log.Printf("[KNOW] sources: %v", err)
	}
	return Stats{
		TotalKnowledge: count,
		Sources:        sources,
		LastUpdated:    time.Now().UTC(),
	}
}

// #endregion stats

// #region graph

// Graph is the knowledge-graph payload. Construction is stubbed: a real
// implementation would extract entities and relations from stored entries.
type Graph struct {
	Nodes     []string  `json:"nodes"`
	Edges     []string  `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`
}

// BuildGraph returns an empty graph skeleton.
func (s *Stage) BuildGraph() Graph {
	return Graph{
		Nodes:     []string{},
		Edges:     []string{},
		CreatedAt: time.Now().UTC(),
		Version:   "1.0",
	}
}

// #endregion graph
