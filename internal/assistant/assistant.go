package assistant

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aletheia-lab/researchd/internal/orchestrator"
)

// #endregion imports

// #region assistant

// Assistant is the office-assistant chat adapter: it routes free-form
// messages to the research pipeline, the knowledge base, or the office
// store by keyword intent. The messaging-platform plumbing (webhooks,
// signing, token refresh) lives outside this package.
type Assistant struct {
	orch   *orchestrator.Orchestrator
	office *OfficeStore
	convs  ConversationStore
}

// New wires an assistant.
func New(orch *orchestrator.Orchestrator, office *OfficeStore, convs ConversationStore) *Assistant {
	return &Assistant{orch: orch, office: office, convs: convs}
}

// #endregion assistant

// #region handle-message

// HandleMessage processes one chat turn. An empty conversationID starts a
// new conversation; the (possibly new) id is returned with the reply.
func (a *Assistant) HandleMessage(ctx context.Context, conversationID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", conversationID, fmt.Errorf("empty message: %w", orchestrator.ErrValidation)
	}
	if conversationID == "" {
		conversationID = uuid.New().String()
	}
	a.convs.Append(conversationID, Message{Role: "user", Content: message})

	reply := a.route(ctx, message)
	a.convs.Append(conversationID, Message{Role: "assistant", Content: reply})
	return reply, conversationID, nil
}

// #endregion handle-message

// #region routing

var researchKeywords = []string{"research", "report", "analyze", "analysis"}

func (a *Assistant) route(ctx context.Context, message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.HasPrefix(lower, "search "):
		return a.handleSearch(ctx, strings.TrimSpace(message[len("search "):]))
	case lower == "status":
		return a.handleStatus(ctx)
	case lower == "graph":
		return a.handleGraph()
	case strings.HasPrefix(lower, "task add "):
		return a.handleTaskAdd(strings.TrimSpace(message[len("task add "):]))
	case strings.HasPrefix(lower, "task done "):
		return a.handleTaskDone(strings.TrimSpace(message[len("task done "):]))
	case lower == "tasks":
		return a.handleTaskList()
	case strings.HasPrefix(lower, "meeting add "):
		return a.handleMeetingAdd(strings.TrimSpace(message[len("meeting add "):]))
	case lower == "meetings":
		return a.handleMeetings()
	case strings.HasPrefix(lower, "find "):
		return a.handleOfficeSearch(strings.TrimSpace(message[len("find "):]))
	case containsAny(lower, researchKeywords):
		return a.handleResearch(ctx, message)
	default:
		return fmt.Sprintf("You said: %q. If you need a research report on this topic, tell me the specific direction to investigate.", message)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// #endregion routing

// #region handlers

func (a *Assistant) handleResearch(ctx context.Context, message string) string {
	report, err := a.orch.RunPipeline(ctx, message)
	if err != nil {
		log.Printf("[ASSIST] pipeline: %v", err)
		return fmt.Sprintf("Something went wrong while researching %q. Please try again.", message)
	}
	return fmt.Sprintf("I have generated a research report on %q:\n\n%s", message, report.Content)
}

func (a *Assistant) handleSearch(ctx context.Context, query string) string {
	entries, err := a.orch.Search(ctx, query, 5)
	if err != nil {
		log.Printf("[ASSIST] search: %v", err)
		return "I could not search the knowledge base for that."
	}
	if len(entries) == 0 {
		return fmt.Sprintf("Nothing in the knowledge base matches %q yet.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Knowledge base results for %q:\n", query)
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, e.Source, firstLine(e.Content))
	}
	return b.String()
}

func (a *Assistant) handleStatus(ctx context.Context) string {
	st := a.orch.GetStatus(ctx)
	reply := fmt.Sprintf("System %s. Knowledge base holds %d items from %d sources.",
		st.Status, st.KnowledgeBaseStats.TotalKnowledge, len(st.KnowledgeBaseStats.Sources))
	stats, err := a.office.Statistics()
	if err != nil {
		return reply
	}
	return reply + fmt.Sprintf(" Tasks: %d total (%d pending, %d in progress, %d done). Meetings today: %d.",
		stats.TotalTasks, stats.PendingTasks, stats.InProgressTasks, stats.DoneTasks, stats.TodayMeetings)
}

func (a *Assistant) handleGraph() string {
	g := a.orch.BuildKnowledgeGraph()
	return fmt.Sprintf("Knowledge graph v%s: %d nodes, %d edges.", g.Version, len(g.Nodes), len(g.Edges))
}

func (a *Assistant) handleTaskAdd(title string) string {
	if title == "" {
		return "Tell me the task title: task add <title>."
	}
	id, err := a.office.CreateTask(title, "", "", 1, "")
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The task store is unavailable right now; the task was not saved."
		}
		log.Printf("[ASSIST] create task: %v", err)
		return "I could not create that task."
	}
	return fmt.Sprintf("Task %d created: %s", id, title)
}

func (a *Assistant) handleTaskDone(arg string) string {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "Tell me the task number: task done <id>."
	}
	if err := a.office.UpdateTaskStatus(id, "done"); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The task store is unavailable right now."
		}
		return fmt.Sprintf("I could not close task %d: %v.", id, err)
	}
	return fmt.Sprintf("Task %d marked done.", id)
}

func (a *Assistant) handleTaskList() string {
	tasks, err := a.office.ListTasks("", "")
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The task store is unavailable right now."
		}
		log.Printf("[ASSIST] list tasks: %v", err)
		return "I could not list the tasks."
	}
	if len(tasks) == 0 {
		return "No tasks yet."
	}
	var b strings.Builder
	b.WriteString("Current tasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "#%d [%s] %s\n", t.ID, t.Status, t.Title)
	}
	return b.String()
}

func (a *Assistant) handleMeetings() string {
	meetings, err := a.office.UpcomingMeetings(7)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The meeting store is unavailable right now."
		}
		log.Printf("[ASSIST] meetings: %v", err)
		return "I could not list upcoming meetings."
	}
	if len(meetings) == 0 {
		return "No meetings scheduled for the next 7 days."
	}
	var b strings.Builder
	b.WriteString("Upcoming meetings:\n")
	for _, m := range meetings {
		fmt.Fprintf(&b, "#%d %s at %s (%s)\n", m.ID, m.Title,
			m.StartTime.Local().Format("Mon Jan 2 15:04"), m.Location)
	}
	return b.String()
}

// handleMeetingAdd accepts "meeting add <title> at <2006-01-02 15:04>" and
// books one hour.
func (a *Assistant) handleMeetingAdd(arg string) string {
	title, when, found := strings.Cut(arg, " at ")
	title = strings.TrimSpace(title)
	if !found || title == "" {
		return "Tell me the meeting and time: meeting add <title> at <2006-01-02 15:04>."
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(when), time.Local)
	if err != nil {
		return fmt.Sprintf("I could not read the time %q; use the form 2006-01-02 15:04.", strings.TrimSpace(when))
	}
	id, err := a.office.ScheduleMeeting(title, "", start, start.Add(time.Hour), "")
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The meeting store is unavailable right now; the meeting was not saved."
		}
		log.Printf("[ASSIST] schedule meeting: %v", err)
		return "I could not schedule that meeting."
	}
	return fmt.Sprintf("Meeting %d scheduled: %s at %s.", id, title, start.Format("Mon Jan 2 15:04"))
}

func (a *Assistant) handleOfficeSearch(query string) string {
	if query == "" {
		return "Tell me what to look for: find <text>."
	}
	tasks, meetings, err := a.office.SearchOffice(query)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "The office store is unavailable right now."
		}
		log.Printf("[ASSIST] office search: %v", err)
		return "I could not search tasks and meetings."
	}
	if len(tasks) == 0 && len(meetings) == 0 {
		return fmt.Sprintf("No tasks or meetings match %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Matches for %q:\n", query)
	for _, t := range tasks {
		fmt.Fprintf(&b, "task #%d [%s] %s\n", t.ID, t.Status, t.Title)
	}
	for _, m := range meetings {
		fmt.Fprintf(&b, "meeting #%d %s at %s\n", m.ID, m.Title,
			m.StartTime.Local().Format("Mon Jan 2 15:04"))
	}
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	return s
}

// #endregion handlers
