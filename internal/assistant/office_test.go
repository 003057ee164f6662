package assistant

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestOffice(t *testing.T) *OfficeStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := NewOfficeStore(db)
	if err != nil {
		t.Fatalf("NewOfficeStore: %v", err)
	}
	return s
}

func TestOffice_CreateAndListTasks(t *testing.T) {
	s := newTestOffice(t)

	id, err := s.CreateTask("write minutes", "from the sync", "alice", 2, "2026-09-15")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id: got %d", id)
	}
	if _, err := s.CreateTask("book room", "", "bob", 1, ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	all, err := s.ListTasks("", "")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d tasks, want 2", len(all))
	}

	alice, err := s.ListTasks("alice", "")
	if err != nil {
		t.Fatalf("ListTasks(alice): %v", err)
	}
	if len(alice) != 1 || alice[0].Title != "write minutes" {
		t.Errorf("alice's tasks: %+v", alice)
	}
	if alice[0].Status != "pending" {
		t.Errorf("default status: got %q, want pending", alice[0].Status)
	}
	if alice[0].Priority != 2 || alice[0].DueDate != "2026-09-15" {
		t.Errorf("task fields: %+v", alice[0])
	}
}

func TestOffice_PriorityClamped(t *testing.T) {
	s := newTestOffice(t)
	for _, p := range []int{0, -3, 4, 99} {
		id, err := s.CreateTask("t", "", "", p, "")
		if err != nil {
			t.Fatalf("CreateTask(priority=%d): %v", p, err)
		}
		tasks, _ := s.ListTasks("", "")
		for _, task := range tasks {
			if task.ID == id && task.Priority != 1 {
				t.Errorf("priority %d stored as %d, want 1", p, task.Priority)
			}
		}
	}
}

func TestOffice_UpdateTaskStatus(t *testing.T) {
	s := newTestOffice(t)
	id, _ := s.CreateTask("t", "", "", 1, "")

	if err := s.UpdateTaskStatus(id, "done"); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	done, err := s.ListTasks("", "done")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(done) != 1 || done[0].ID != id {
		t.Errorf("done tasks: %+v", done)
	}

	if err := s.UpdateTaskStatus(9999, "done"); err == nil {
		t.Error("expected error for missing task")
	}
}

func TestOffice_Meetings(t *testing.T) {
	s := newTestOffice(t)
	now := time.Now().UTC()

	soon := now.Add(24 * time.Hour)
	far := now.AddDate(0, 0, 30)
	past := now.Add(-24 * time.Hour)

	if _, err := s.ScheduleMeeting("standup", "", soon, soon.Add(time.Hour), "room 2"); err != nil {
		t.Fatalf("ScheduleMeeting: %v", err)
	}
	if _, err := s.ScheduleMeeting("offsite", "", far, far.Add(time.Hour), ""); err != nil {
		t.Fatalf("ScheduleMeeting: %v", err)
	}
	if _, err := s.ScheduleMeeting("retro", "", past, past.Add(time.Hour), ""); err != nil {
		t.Fatalf("ScheduleMeeting: %v", err)
	}

	upcoming, err := s.UpcomingMeetings(7)
	if err != nil {
		t.Fatalf("UpcomingMeetings: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Title != "standup" {
		t.Errorf("upcoming: %+v", upcoming)
	}
	if upcoming[0].Location != "room 2" {
		t.Errorf("location: got %q", upcoming[0].Location)
	}
}

func TestOffice_Search(t *testing.T) {
	s := newTestOffice(t)
	now := time.Now().UTC().Add(time.Hour)

	s.CreateTask("quarterly budget review", "", "", 1, "")
	s.CreateTask("unrelated", "", "", 1, "")
	s.ScheduleMeeting("budget planning", "", now, now.Add(time.Hour), "")

	tasks, meetings, err := s.SearchOffice("budget")
	if err != nil {
		t.Fatalf("SearchOffice: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "quarterly budget review" {
		t.Errorf("tasks: %+v", tasks)
	}
	if len(meetings) != 1 || meetings[0].Title != "budget planning" {
		t.Errorf("meetings: %+v", meetings)
	}
}

func TestOffice_Statistics(t *testing.T) {
	s := newTestOffice(t)
	now := time.Now().UTC()

	id1, _ := s.CreateTask("a", "", "", 1, "")
	s.CreateTask("b", "", "", 1, "")
	id3, _ := s.CreateTask("c", "", "", 1, "")
	if err := s.UpdateTaskStatus(id1, "done"); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if err := s.UpdateTaskStatus(id3, "in_progress"); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}

	// One meeting today (noon UTC, safe at day boundaries), one next week.
	today := now.Truncate(24 * time.Hour).Add(12 * time.Hour)
	s.ScheduleMeeting("today", "", today, today.Add(time.Hour), "")
	nextWeek := now.AddDate(0, 0, 7)
	s.ScheduleMeeting("later", "", nextWeek, nextWeek.Add(time.Hour), "")

	stats, err := s.Statistics()
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalTasks != 3 || stats.PendingTasks != 1 ||
		stats.InProgressTasks != 1 || stats.DoneTasks != 1 {
		t.Errorf("task stats: %+v", stats)
	}
	if stats.TodayMeetings != 1 {
		t.Errorf("TodayMeetings: got %d, want 1", stats.TodayMeetings)
	}
}

func TestOffice_Unavailable(t *testing.T) {
	s, err := NewOfficeStore(nil)
	if err != nil {
		t.Fatalf("NewOfficeStore(nil): %v", err)
	}

	if _, err := s.CreateTask("t", "", "", 1, ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CreateTask: got %v", err)
	}
	if _, err := s.ListTasks("", ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ListTasks: got %v", err)
	}
	if err := s.UpdateTaskStatus(1, "done"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("UpdateTaskStatus: got %v", err)
	}
	if _, err := s.ScheduleMeeting("m", "", time.Now(), time.Now(), ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ScheduleMeeting: got %v", err)
	}
	if _, err := s.UpcomingMeetings(7); !errors.Is(err, ErrUnavailable) {
		t.Errorf("UpcomingMeetings: got %v", err)
	}
	if _, _, err := s.SearchOffice("q"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SearchOffice: got %v", err)
	}
}
