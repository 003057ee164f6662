package reportstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "reports.db"))
	if !s.Connected() {
		t.Fatal("store did not connect")
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetReport(t *testing.T) {
	s := newTestStore(t)

	id, degraded := s.SaveReport("test topic", "report body")
	if degraded {
		t.Fatal("save reported degraded on a connected store")
	}
	if id <= 0 {
		t.Fatalf("id: got %d", id)
	}

	r, err := s.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if r.Topic != "test topic" || r.Content != "report body" {
		t.Errorf("round trip: %+v", r)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetReport_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetReport(999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListReports_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	var ids []int64
	for _, topic := range []string{"first", "second", "third"} {
		id, _ := s.SaveReport(topic, "body")
		ids = append(ids, id)
	}

	reports, err := s.ListReports()
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	for i, want := range []string{"third", "second", "first"} {
		if reports[i].Topic != want {
			t.Errorf("reports[%d].Topic: got %q, want %q", i, reports[i].Topic, want)
		}
	}
	if reports[0].ID != ids[2] {
		t.Errorf("reports[0].ID: got %d, want %d", reports[0].ID, ids[2])
	}
}

func TestDegradedStore(t *testing.T) {
	// Parent directory does not exist; the open fails and the store degrades.
	s := NewStore(filepath.Join(t.TempDir(), "missing", "reports.db"))
	if s.Connected() {
		t.Fatal("expected degraded store")
	}

	id, degraded := s.SaveReport("topic", "content")
	if !degraded || id != SentinelID {
		t.Errorf("SaveReport: got (%d, %v), want (%d, true)", id, degraded, SentinelID)
	}

	if _, err := s.GetReport(SentinelID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetReport: got %v, want ErrNotFound", err)
	}
	if reports, err := s.ListReports(); err != nil || reports != nil {
		t.Errorf("ListReports: got (%v, %v), want (nil, nil)", reports, err)
	}
	if runs, err := s.ListRuns(10); err != nil || runs != nil {
		t.Errorf("ListRuns: got (%v, %v), want (nil, nil)", runs, err)
	}
	// Must not panic.
	s.LogRun(RunRecord{RunID: "r1", Topic: "topic", Depth: "basic"})
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRunLog(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	for i, runID := range []string{"run-a", "run-b", "run-c"} {
		s.LogRun(RunRecord{
			RunID:        runID,
			Topic:        "topic",
			Depth:        "deep",
			QualityScore: 60 + i,
			DurationMS:   int64(100 * i),
			CreatedAt:    now,
		})
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Errorf("order: got %q, %q", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].QualityScore != 62 {
		t.Errorf("QualityScore: got %d, want 62", runs[0].QualityScore)
	}
}
