package orchestrator

// #region imports
import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aletheia-lab/researchd/internal/knowledge"
	"github.com/aletheia-lab/researchd/internal/reportstore"
	"github.com/aletheia-lab/researchd/internal/research"
	"github.com/aletheia-lab/researchd/internal/review"
	"github.com/aletheia-lab/researchd/internal/writer"
)

// #endregion imports

// #region orchestrator-struct

// Orchestrator sequences the four stages of a run:
// Research → Write → Review → Knowledge. Stages are stateless workers; the
// orchestrator owns the lifecycle of the per-run report value. All four
// stages execute strictly sequentially within one run.
type Orchestrator struct {
	research *research.Stage
	writer   *writer.Stage
	know     *knowledge.Stage
	reports  *reportstore.Store
}

// New creates a fully wired orchestrator.
func New(researchStage *research.Stage, writerStage *writer.Stage,
	knowStage *knowledge.Stage, reports *reportstore.Store) *Orchestrator {
	return &Orchestrator{
		research: researchStage,
		writer:   writerStage,
		know:     knowStage,
		reports:  reports,
	}
}

// #endregion orchestrator-struct

// #region run-orchestrated

// RunOrchestrated executes depth-many research/write/review cycles and
// returns the final cycle's report, decorated with its review and the
// knowledge-base stats taken after the report itself was inserted.
//
// Research re-runs on every cycle and re-inserts near-duplicate chunks;
// only the last cycle's report survives. Deliberately preserved behavior.
func (o *Orchestrator) RunOrchestrated(ctx context.Context, topic string, depth Depth) (Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Report{}, fmt.Errorf("empty topic: %w", ErrValidation)
	}

	runID := uuid.New().String()
	start := time.Now()
	iterations := depth.Iterations()
	log.Printf("[ORCH] run=%s topic=%q depth=%s iterations=%d", runID, topic, depth, iterations)

	var final Report
	for i := 1; i <= iterations; i++ {
		status, err := o.research.Process(ctx, fmt.Sprintf("%s (round %d)", topic, i))
		if err != nil {
			return Report{}, &RunError{RunID: runID, Topic: topic, Stage: "research", Err: err}
		}
		log.Printf("[ORCH] run=%s round=%d %s", runID, i, status)

		rep := o.writer.WriteReport(ctx, topic)
		final = Report{
			Report: rep,
			Review: review.Review(rep.Content, topic),
		}
	}

	err := o.know.AddKnowledge(ctx, final.Content, knowledge.Metadata{
		Source: "Research on " + topic,
		Type:   "research_report",
		Topic:  topic,
		Depth:  string(depth),
	})
	if err != nil {
		return Report{}, &RunError{RunID: runID, Topic: topic, Stage: "knowledge", Err: err}
	}
	final.KnowledgeStats = o.know.GetStats(ctx)

	o.reports.LogRun(reportstore.RunRecord{
		RunID:        runID,
		Topic:        topic,
		Depth:        string(depth),
		QualityScore: final.Review.QualityScore,
		DurationMS:   time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	})
	log.Printf("[ORCH] run=%s done score=%d assessment=%s elapsed=%s",
		runID, final.Review.QualityScore, final.Review.OverallAssessment, time.Since(start))
	return final, nil
}

// #endregion run-orchestrated

// #region run-pipeline

// RunPipeline is the one-shot path: a single research/write/review cycle
// followed by the knowledge insert, without depth control or stats
// decoration.
func (o *Orchestrator) RunPipeline(ctx context.Context, topic string) (Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Report{}, fmt.Errorf("empty topic: %w", ErrValidation)
	}

	runID := uuid.New().String()
	status, err := o.research.Process(ctx, topic)
	if err != nil {
		return Report{}, &RunError{RunID: runID, Topic: topic, Stage: "research", Err: err}
	}
	log.Printf("[ORCH] run=%s %s", runID, status)

	rep := o.writer.WriteReport(ctx, topic)
	result := Report{
		Report: rep,
		Review: review.Review(rep.Content, topic),
	}

	err = o.know.AddKnowledge(ctx, rep.Content, knowledge.Metadata{
		Source: fmt.Sprintf("Research Report ID: %d", rep.ID),
		Type:   "research_report",
		Topic:  topic,
	})
	if err != nil {
		return Report{}, &RunError{RunID: runID, Topic: topic, Stage: "knowledge", Err: err}
	}
	return result, nil
}

// #endregion run-pipeline

// #region search

// Search queries the knowledge base.
func (o *Orchestrator) Search(ctx context.Context, query string, limit int) ([]knowledge.Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", ErrValidation)
	}
	if limit <= 0 {
		limit = 5
	}
	return o.know.SearchKnowledge(ctx, query, limit)
}

// #endregion search

// #region graph

// BuildKnowledgeGraph exposes the knowledge stage's graph construction.
func (o *Orchestrator) BuildKnowledgeGraph() knowledge.Graph {
	return o.know.BuildGraph()
}

// #endregion graph

// #region status

// GetStatus reports the system snapshot.
func (o *Orchestrator) GetStatus(ctx context.Context) Status {
	return Status{
		Status:             "running",
		KnowledgeBaseStats: o.know.GetStats(ctx),
		Agents:             []string{"research", "writer", "review", "knowledge"},
	}
}

// #endregion status
