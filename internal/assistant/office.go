package assistant

// #region imports
import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// #endregion imports

// #region schema

const officeSchema = `
CREATE TABLE IF NOT EXISTS office_tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	assignee    TEXT NOT NULL DEFAULT '',
	priority    INTEGER NOT NULL DEFAULT 1,
	status      TEXT NOT NULL DEFAULT 'pending',
	due_date    TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS office_meetings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region types

// ErrUnavailable is returned for office operations when the relational
// store is running degraded.
var ErrUnavailable = errors.New("assistant: office store unavailable")

// Task is one office task row.
type Task struct {
	ID          int64
	Title       string
	Description string
	Assignee    string
	Priority    int
	Status      string
	DueDate     string
	CreatedAt   time.Time
}

// Meeting is one scheduled meeting row.
type Meeting struct {
	ID          int64
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
}

// #endregion types

// #region office-store

// OfficeStore keeps tasks and meetings in the shared SQLite database.
// A nil handle (relational store degraded) makes every operation return
// ErrUnavailable.
type OfficeStore struct {
	db *sql.DB
}

// NewOfficeStore creates the office tables if needed. db may be nil.
func NewOfficeStore(db *sql.DB) (*OfficeStore, error) {
	s := &OfficeStore{db: db}
	if db == nil {
		return s, nil
	}
	if _, err := db.Exec(officeSchema); err != nil {
		return nil, fmt.Errorf("office schema: %w", err)
	}
	return s, nil
}

// #endregion office-store

// #region tasks

// CreateTask inserts a task and returns its id.
func (s *OfficeStore) CreateTask(title, description, assignee string, priority int, dueDate string) (int64, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}
	if priority < 1 || priority > 3 {
		priority = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO office_tasks (title, description, assignee, priority, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, description, assignee, priority, dueDate, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return res.LastInsertId()
}

// ListTasks returns tasks, optionally filtered by assignee and status,
// newest first.
func (s *OfficeStore) ListTasks(assignee, status string) ([]Task, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	query := `SELECT id, title, description, assignee, priority, status, COALESCE(due_date, ''), created_at
	          FROM office_tasks WHERE 1=1`
	var args []any
	if assignee != "" {
		query += ` AND assignee = ?`
		args = append(args, assignee)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Assignee,
			&t.Priority, &t.Status, &t.DueDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus moves a task to a new status.
func (s *OfficeStore) UpdateTaskStatus(taskID int64, status string) error {
	if s.db == nil {
		return ErrUnavailable
	}
	res, err := s.db.Exec(`UPDATE office_tasks SET status = ? WHERE id = ?`, status, taskID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", taskID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d not found", taskID)
	}
	return nil
}

// #endregion tasks

// #region meetings

// ScheduleMeeting inserts a meeting and returns its id.
func (s *OfficeStore) ScheduleMeeting(title, description string, start, end time.Time, location string) (int64, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}
	res, err := s.db.Exec(
		`INSERT INTO office_meetings (title, description, start_time, end_time, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, description,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
		location, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("schedule meeting: %w", err)
	}
	return res.LastInsertId()
}

// UpcomingMeetings returns meetings starting within the next N days,
// soonest first.
func (s *OfficeStore) UpcomingMeetings(days int) ([]Meeting, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	now := time.Now().UTC()
	until := now.AddDate(0, 0, days)
	rows, err := s.db.Query(
		`SELECT id, title, description, start_time, end_time, location
		 FROM office_meetings WHERE start_time >= ? AND start_time <= ?
		 ORDER BY start_time ASC`,
		now.Format(time.RFC3339), until.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("upcoming meetings: %w", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		var start, end string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &start, &end, &m.Location); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		m.StartTime, _ = time.Parse(time.RFC3339, start)
		m.EndTime, _ = time.Parse(time.RFC3339, end)
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// #endregion meetings

// #region statistics

// OfficeStats aggregates the office tables: task counts by status plus the
// number of meetings starting today.
type OfficeStats struct {
	TotalTasks      int `json:"total_tasks"`
	PendingTasks    int `json:"pending_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
	DoneTasks       int `json:"done_tasks"`
	TodayMeetings   int `json:"today_meetings"`
}

// Statistics computes the office aggregates.
func (s *OfficeStore) Statistics() (OfficeStats, error) {
	if s.db == nil {
		return OfficeStats{}, ErrUnavailable
	}
	var st OfficeStats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = 'pending' THEN 1 END),
		        COUNT(CASE WHEN status = 'in_progress' THEN 1 END),
		        COUNT(CASE WHEN status = 'done' THEN 1 END)
		 FROM office_tasks`,
	).Scan(&st.TotalTasks, &st.PendingTasks, &st.InProgressTasks, &st.DoneTasks)
	if err != nil {
		return OfficeStats{}, fmt.Errorf("task statistics: %w", err)
	}

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM office_meetings WHERE start_time >= ? AND start_time < ?`,
		dayStart.Format(time.RFC3339), dayStart.Add(24*time.Hour).Format(time.RFC3339),
	).Scan(&st.TodayMeetings)
	if err != nil {
		return OfficeStats{}, fmt.Errorf("meeting statistics: %w", err)
	}
	return st, nil
}

// #endregion statistics

// #region search

// SearchOffice looks for the query in task and meeting titles and
// descriptions, five of each at most.
func (s *OfficeStore) SearchOffice(query string) ([]Task, []Meeting, error) {
	if s.db == nil {
		return nil, nil, ErrUnavailable
	}
	pattern := "%" + query + "%"

	taskRows, err := s.db.Query(
		`SELECT id, title, description, assignee, priority, status, COALESCE(due_date, ''), created_at
		 FROM office_tasks WHERE title LIKE ? OR description LIKE ?
		 ORDER BY created_at DESC LIMIT 5`, pattern, pattern,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("search tasks: %w", err)
	}
	defer taskRows.Close()

	var tasks []Task
	for taskRows.Next() {
		var t Task
		var createdAt string
		if err := taskRows.Scan(&t.ID, &t.Title, &t.Description, &t.Assignee,
			&t.Priority, &t.Status, &t.DueDate, &createdAt); err != nil {
			return nil, nil, fmt.Errorf("scan task: %w", err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return nil, nil, err
	}

	meetingRows, err := s.db.Query(
		`SELECT id, title, description, start_time, end_time, location
		 FROM office_meetings WHERE title LIKE ? OR description LIKE ?
		 ORDER BY start_time DESC LIMIT 5`, pattern, pattern,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("search meetings: %w", err)
	}
	defer meetingRows.Close()

	var meetings []Meeting
	for meetingRows.Next() {
		var m Meeting
		var start, end string
		if err := meetingRows.Scan(&m.ID, &m.Title, &m.Description, &start, &end, &m.Location); err != nil {
			return nil, nil, fmt.Errorf("scan meeting: %w", err)
		}
		m.StartTime, _ = time.Parse(time.RFC3339, start)
		m.EndTime, _ = time.Parse(time.RFC3339, end)
		meetings = append(meetings, m)
	}
	return tasks, meetings, meetingRows.Err()
}

// #endregion search
