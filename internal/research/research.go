package research

// #region imports
import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aletheia-lab/researchd/internal/config"
	"github.com/aletheia-lab/researchd/internal/vectorstore"
)

// #endregion imports

// #region embedder

// Embedder abstracts the embedding model call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// #endregion embedder

// #region stage

// Stage collects raw content for a topic, splits it into overlapping chunks,
// embeds each chunk, and inserts everything into the vector store. Stateless
// between calls; each run appends, never upserts.
type Stage struct {
	embedder Embedder
	store    vectorstore.Store
	caps     config.Capability

	chunkSize    int
	chunkOverlap int
	dim          int
}

// NewStage wires a research stage. embedder may be nil when the embeddings
// capability is off.
func NewStage(embedder Embedder, store vectorstore.Store, caps config.Capability, cfg config.Config) *Stage {
	return &Stage{
		embedder:     embedder,
		store:        store,
		caps:         caps,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		dim:          cfg.EmbeddingDim,
	}
}

// #endregion stage

// #region process

// Process runs the research stage for a topic. Embedding failures are
// per-chunk and non-fatal: a failed chunk gets a zero vector so the chunk
// count never depends on embedding availability. Returns a status line.
func (s *Stage) Process(ctx context.Context, topic string) (string, error) {
	content := sampleContent(topic)
	chunks := SplitText(content, s.chunkSize, s.chunkOverlap)
	source := "Research on " + topic
	now := time.Now().Unix()

	for _, text := range chunks {
		embedding := s.embedChunk(ctx, text)
		err := s.store.Insert(ctx, vectorstore.Chunk{
			Content:   text,
			Embedding: embedding,
			Source:    source,
			Timestamp: now,
		})
		if err != nil {
			// Dimension mismatch is a wiring bug, not a degraded backend.
			return "", fmt.Errorf("research insert: %w", err)
		}
	}

	log.Printf("[RESEARCH] topic=%q chunks=%d embeddings=%v", topic, len(chunks), s.caps.Embeddings)
	return fmt.Sprintf("Completed research on %q: processed %d document chunks.", topic, len(chunks)), nil
}

func (s *Stage) embedChunk(ctx context.Context, text string) []float32 {
	if s.caps.Embeddings && s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, text)
		if err == nil {
			return vec
		}
		log.Printf("[RESEARCH] embed chunk: %v, substituting zero vector", err)
	}
	return make([]float32, s.dim)
}

// #endregion process

// #region sample-content

// Canned source material for well-known topics. Stands in for a real
// content-acquisition step (search, crawling), which is out of scope.
var contentTemplates = map[string]string{
	"artificial intelligence": `
Artificial intelligence (AI) is a branch of computer science devoted to building machines that perform tasks normally requiring human intelligence.
Its history reaches back to the 1950s, when Alan Turing proposed the now-famous Turing test.
Modern AI spans machine learning, deep learning, natural language processing, and several other subfields.
Applications are broad, covering medical diagnosis, financial analysis, autonomous vehicles, and many other industries.
Advances in computing power and the availability of large datasets have driven rapid progress across the field.
`,
	"machine learning": `
Machine learning is a major branch of artificial intelligence that lets computers learn from data without being explicitly programmed.
Supervised learning, unsupervised learning, and reinforcement learning are its three principal paradigms.
Deep learning is a specialized machine learning approach that uses multi-layer neural networks to approximate how the brain learns.
Machine learning algorithms have produced notable results in image recognition, speech recognition, and recommendation systems.
Data quality and feature engineering remain decisive for the performance of any learned model.
`,
	"deep learning": `
Deep learning is a subset of machine learning built on artificial neural networks, particularly deep ones.
Convolutional networks excel at image processing, while recurrent networks suit sequential data.
In recent years the Transformer architecture has produced breakthrough results in natural language processing.
Training deep models demands large labeled datasets and substantial compute, typically GPUs or TPUs.
Transfer learning makes it practical to adapt deep models to small datasets.
`,
}

// sampleContent returns canned material for known topics and a generic
// templated paragraph otherwise.
func sampleContent(topic string) string {
	if tpl, ok := contentTemplates[strings.ToLower(strings.TrimSpace(topic))]; ok {
		return tpl
	}
	return fmt.Sprintf(`
Research summary about %[1]s:
This is about %[1]s, an important and active research area.
The field spans multiple aspects and application scenarios.
As the underlying technology matures, %[1]s is becoming increasingly significant.
In the future, %[1]s may see further innovation and development.
`, topic)
}

// KnownTopics lists the topics with canned source material.
func KnownTopics() []string {
	return []string{"artificial intelligence", "machine learning", "deep learning"}
}

// #endregion sample-content
