package reportstore

// #region imports
import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// #endregion imports

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	topic       TEXT NOT NULL,
	content     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	topic          TEXT NOT NULL,
	depth          TEXT NOT NULL,
	quality_score  INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);
`

// #endregion schema

// #region types

// Report is a persisted research report row.
type Report struct {
	ID        int64
	Topic     string
	Content   string
	CreatedAt time.Time
}

// RunRecord is one orchestrated pipeline run, for the run log.
type RunRecord struct {
	RunID        string
	Topic        string
	Depth        string
	QualityScore int
	DurationMS   int64
	CreatedAt    time.Time
}

// ErrNotFound is returned when a report id has no row.
var ErrNotFound = errors.New("reportstore: report not found")

// SentinelID is the report id handed out in degraded mode. It does not
// identify a durable row.
const SentinelID int64 = 1

// #endregion types

// #region store-struct

// Store persists reports and the run log in SQLite. A connection failure at
// construction flips the store into a permanent degraded mode: saves return
// SentinelID and nothing is durably persisted. There is no reconnect.
type Store struct {
	db        *sql.DB
	connected bool
}

// NewStore opens the SQLite database and runs migrations. The returned
// store is usable even when the open fails; it just reports degraded.
func NewStore(dbPath string) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err == nil {
		if _, e := db.Exec("PRAGMA journal_mode=WAL"); e != nil {
			err = fmt.Errorf("pragma: %w", e)
		} else if _, e := db.Exec(schema); e != nil {
			err = fmt.Errorf("migrate: %w", e)
		}
	}
	if err != nil {
		if db != nil {
			db.Close()
		}
		log.Printf("[RSTORE] open %s: %v, running degraded, reports not persisted", dbPath, err)
		return &Store{connected: false}
	}
	return &Store{db: db, connected: true}
}

// Connected reports whether the store is backed by a live database. Callers
// must not treat SentinelID as a row identifier unless this returns true.
func (s *Store) Connected() bool {
	return s.connected
}

// DB exposes the underlying handle for co-located tables (assistant).
// Nil in degraded mode.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database if one is open.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// #endregion store-struct

// #region save-report

// SaveReport inserts a report and returns its row id. In degraded mode, or
// on an insert failure, it returns SentinelID with degraded=true instead of
// an error; report generation is never blocked by the relational store.
func (s *Store) SaveReport(topic, content string) (id int64, degraded bool) {
	if !s.connected {
		return SentinelID, true
	}
	res, err := s.db.Exec(
		`INSERT INTO reports (topic, content, created_at) VALUES (?, ?, ?)`,
		topic, content, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Printf("[RSTORE] save report: %v", err)
		return SentinelID, true
	}
	id, err = res.LastInsertId()
	if err != nil {
		log.Printf("[RSTORE] last insert id: %v", err)
		return SentinelID, true
	}
	return id, false
}

// #endregion save-report

// #region get-report

// GetReport retrieves a report by id. Returns ErrNotFound for missing rows
// and for any lookup in degraded mode.
func (s *Store) GetReport(id int64) (Report, error) {
	if !s.connected {
		return Report{}, ErrNotFound
	}
	var r Report
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, topic, content, created_at FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.Topic, &r.Content, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("get report %d: %w", id, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

// #endregion get-report

// #region list-reports

// ListReports returns all reports, newest first. Empty in degraded mode.
func (s *Store) ListReports() ([]Report, error) {
	if !s.connected {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, topic, content, created_at FROM reports ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Topic, &r.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// #endregion list-reports

// #region run-log

// LogRun appends one orchestrated run to the run log. Failures are logged
// and swallowed; the run log is best effort.
func (s *Store) LogRun(rec RunRecord) {
	if !s.connected {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO run_log (run_id, topic, depth, quality_score, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Topic, rec.Depth, rec.QualityScore, rec.DurationMS,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		log.Printf("[RSTORE] log run: %v", err)
	}
}

// ListRuns returns the most recent run-log entries, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if !s.connected {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT run_id, topic, depth, quality_score, duration_ms, created_at
		 FROM run_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdAt string
		if err := rows.Scan(&rec.RunID, &rec.Topic, &rec.Depth, &rec.QualityScore,
			&rec.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// #endregion run-log
