package orchestrator

// #region imports
import (
	"errors"
	"fmt"

	"github.com/aletheia-lab/researchd/internal/knowledge"
	"github.com/aletheia-lab/researchd/internal/review"
	"github.com/aletheia-lab/researchd/internal/writer"
)

// #endregion imports

// #region depth

// Depth selects how many research/write/review cycles a run performs.
type Depth string

const (
	DepthBasic        Depth = "basic"
	DepthIntermediate Depth = "intermediate"
	DepthDeep         Depth = "deep"
)

// Iterations maps a depth onto its cycle count. Unknown depths run a
// single cycle.
func (d Depth) Iterations() int {
	switch d {
	case DepthDeep:
		return 3
	case DepthIntermediate:
		return 2
	default:
		return 1
	}
}

// #endregion depth

// #region report

// Report is the merged output of one run: the persisted report decorated
// with the review and, for orchestrated runs, knowledge-base aggregates.
// Review and KnowledgeStats are transient; only the embedded report row is
// persisted.
type Report struct {
	writer.Report
	Review         review.Result
	KnowledgeStats knowledge.Stats
}

// #endregion report

// #region status

// Status is the system snapshot exposed to surrounding layers.
type Status struct {
	Status             string          `json:"status"`
	KnowledgeBaseStats knowledge.Stats `json:"knowledge_base_stats"`
	Agents             []string        `json:"agents"`
}

// #endregion status

// #region errors

// ErrValidation rejects bad input (empty topic or query) before the
// pipeline runs.
var ErrValidation = errors.New("orchestrator: invalid input")

// RunError is the structured failure payload for a run. Callers always get
// either a complete (possibly degraded) Report or one of these; stages do
// not leak raw dependency errors through the orchestrator.
type RunError struct {
	RunID string
	Topic string
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s: stage %s failed for topic %q: %v", e.RunID, e.Stage, e.Topic, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// #endregion errors
