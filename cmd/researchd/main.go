package main

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aletheia-lab/researchd/internal/assistant"
	"github.com/aletheia-lab/researchd/internal/config"
	"github.com/aletheia-lab/researchd/internal/knowledge"
	"github.com/aletheia-lab/researchd/internal/model"
	"github.com/aletheia-lab/researchd/internal/orchestrator"
	"github.com/aletheia-lab/researchd/internal/reportstore"
	"github.com/aletheia-lab/researchd/internal/research"
	"github.com/aletheia-lab/researchd/internal/vectorstore"
	"github.com/aletheia-lab/researchd/internal/writer"
)

// #endregion imports

// #region main

func main() {
	cfg := config.DefaultConfig()
	caps := cfg.Capabilities()

	setupCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	vstore, err := vectorstore.Open(setupCtx, cfg.UseMilvus, cfg.MilvusAddr,
		cfg.Collection, cfg.EmbeddingDim, cfg.FallbackPath)
	cancel()
	if err != nil {
		log.Fatalf("open vector store: %v", err)
	}
	defer vstore.Close()

	reports := reportstore.NewStore(cfg.DBPath)
	defer reports.Close()

	client := model.NewClient(model.Options{
		APIBase:        cfg.APIBase,
		APIKey:         cfg.APIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		LLMModel:       cfg.LLMModel,
		EmbeddingDim:   cfg.EmbeddingDim,
		Timeout:        cfg.RequestTimeout,
	})

	orch := orchestrator.New(
		research.NewStage(client, vstore, caps, cfg),
		writer.NewStage(client, client, vstore, reports, caps, cfg),
		knowledge.NewStage(client, vstore, caps, cfg),
		reports,
	)

	office, err := assistant.NewOfficeStore(reports.DB())
	if err != nil {
		log.Fatalf("open office store: %v", err)
	}
	asst := assistant.New(orch, office, assistant.NewMemoryConversations())

	fmt.Println("Research Assistant ready.")
	fmt.Printf("  DB: %s | Milvus: %v | Embeddings: %v | Generation: %v\n",
		cfg.DBPath, cfg.UseMilvus, caps.Embeddings, caps.Generation)
	fmt.Println("Commands: research <topic> | intermediate <topic> | deep <topic> | search <query> | status | graph | quit")
	fmt.Println("Anything else is treated as chat.")

	repl(orch, asst)
}

// #endregion main

// #region repl

func repl(orch *orchestrator.Orchestrator, asst *assistant.Assistant) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	conversationID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		switch depth, topic, ok := reportCommand(line); {
		case ok:
			runReport(ctx, orch, topic, depth)
		case line == "status":
			st := orch.GetStatus(ctx)
			fmt.Printf("status=%s knowledge=%d sources=%v agents=%v\n",
				st.Status, st.KnowledgeBaseStats.TotalKnowledge,
				st.KnowledgeBaseStats.Sources, st.Agents)
		default:
			reply, convID, err := asst.HandleMessage(ctx, conversationID, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
			} else {
				conversationID = convID
				fmt.Println(reply)
			}
		}
		cancel()
	}
}

// depthCommands maps REPL report commands onto run depths.
var depthCommands = map[string]orchestrator.Depth{
	"research":     orchestrator.DepthBasic,
	"intermediate": orchestrator.DepthIntermediate,
	"deep":         orchestrator.DepthDeep,
}

// reportCommand splits a REPL line into a run depth and topic. ok is false
// when the line is not a report command; such lines fall through to chat.
func reportCommand(line string) (orchestrator.Depth, string, bool) {
	word, rest, _ := strings.Cut(line, " ")
	depth, known := depthCommands[strings.ToLower(word)]
	topic := strings.TrimSpace(rest)
	if !known || topic == "" {
		return "", "", false
	}
	return depth, topic, true
}

func runReport(ctx context.Context, orch *orchestrator.Orchestrator, topic string, depth orchestrator.Depth) {
	report, err := orch.RunOrchestrated(ctx, topic, depth)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	sep := strings.Repeat("=", 50)
	fmt.Println(sep)
	fmt.Printf("Topic: %s\nReport ID: %d (content source: %s)\n", report.Topic, report.ID, report.ContentSource)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Println(report.Content)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Review: %d/100 (%s)\n", report.Review.QualityScore, report.Review.OverallAssessment)
	for _, f := range report.Review.Feedback {
		fmt.Printf("  ! %s\n", f)
	}
	for _, s := range report.Review.Suggestions {
		fmt.Printf("  * %s\n", s)
	}
	fmt.Printf("Knowledge base: %d items, %d sources\n",
		report.KnowledgeStats.TotalKnowledge, len(report.KnowledgeStats.Sources))
	fmt.Println(sep)
}

// #endregion repl
