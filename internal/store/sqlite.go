// Package store persists harvested jobs in SQLite for review. Uniqueness
// on (url, title, company) gives insert-if-absent semantics, so running
// the harvest again is idempotent.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/priyamv/jobhub/internal/model"
)

// Review statuses a stored job moves through.
const (
	StatusNew      = "New"
	StatusSaved    = "Saved"
	StatusApplied  = "Applied"
	StatusRejected = "Rejected"
)

// followUpLead is how far after applying the follow-up reminder defaults.
const followUpLead = 4 * 24 * time.Hour

var validStatuses = map[string]bool{
	StatusNew:      true,
	StatusSaved:    true,
	StatusApplied:  true,
	StatusRejected: true,
}

// Record is a stored job plus its review state.
type Record struct {
	ID         int64
	Job        model.Job
	Status     string
	AddedAt    string
	AppliedAt  string
	FollowUpAt string
	Notes      string
}

// Store wraps the jobs database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// jobs table exists.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		url          TEXT NOT NULL,
		title        TEXT NOT NULL,
		company      TEXT NOT NULL,
		location     TEXT,
		source       TEXT,
		posted_at    TEXT,
		hot          INTEGER DEFAULT 0,
		added_at     TEXT NOT NULL,
		status       TEXT DEFAULT 'New',
		applied_at   TEXT,
		follow_up_at TEXT,
		notes        TEXT DEFAULT '',
		UNIQUE(url, title, company)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &Store{db: db}, nil
}

// Add inserts a job if its identity tuple is not already present.
// Returns true if a row was inserted.
func (s *Store) Add(job model.Job) (bool, error) {
	hot := 0
	if job.Hot {
		hot = 1
	}
	res, err := s.db.Exec(`INSERT OR IGNORE INTO jobs
		(url, title, company, location, source, posted_at, hot, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.URL, job.Title, job.Company, job.Location, string(job.Source),
		job.PostedAt, hot, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("adding job %s: %w", job.URL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding job %s: %w", job.URL, err)
	}
	return n > 0, nil
}

// AddBatch inserts each job, skipping ones already present. Returns the
// count actually inserted.
func (s *Store) AddBatch(jobs []model.Job) (int, error) {
	added := 0
	for _, job := range jobs {
		ok, err := s.Add(job)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

const selectColumns = `id, url, title, company, location, source, posted_at, hot,
	added_at, status, COALESCE(applied_at, ''), COALESCE(follow_up_at, ''), COALESCE(notes, '')`

// All returns every stored job, hottest and most recently added first.
func (s *Store) All() ([]Record, error) {
	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM jobs
		ORDER BY hot DESC, added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByStatus returns jobs in the given review status.
func (s *Store) ByStatus(status string) ([]Record, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM jobs
		WHERE status = ? ORDER BY hot DESC, added_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("querying jobs by status %s: %w", status, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var source string
		var hot int
		err := rows.Scan(&r.ID, &r.Job.URL, &r.Job.Title, &r.Job.Company,
			&r.Job.Location, &source, &r.Job.PostedAt, &hot,
			&r.AddedAt, &r.Status, &r.AppliedAt, &r.FollowUpAt, &r.Notes)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		r.Job.Source = model.Source(source)
		r.Job.Hot = hot == 1
		records = append(records, r)
	}
	return records, rows.Err()
}

// UpdateStatus moves a job to a new review status. Setting Applied also
// stamps applied_at and schedules a follow-up four days out.
func (s *Store) UpdateStatus(id int64, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid status %q", status)
	}

	if status == StatusApplied {
		now := time.Now().UTC()
		_, err := s.db.Exec(`UPDATE jobs SET status = ?, applied_at = ?, follow_up_at = ? WHERE id = ?`,
			status, now.Format(time.RFC3339), now.Add(followUpLead).Format(time.RFC3339), id)
		if err != nil {
			return fmt.Errorf("updating job %d status: %w", id, err)
		}
		return nil
	}

	if _, err := s.db.Exec(`UPDATE jobs SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("updating job %d status: %w", id, err)
	}
	return nil
}

// UpdateNotes replaces a job's notes.
func (s *Store) UpdateNotes(id int64, notes string) error {
	if _, err := s.db.Exec(`UPDATE jobs SET notes = ? WHERE id = ?`, notes, id); err != nil {
		return fmt.Errorf("updating job %d notes: %w", id, err)
	}
	return nil
}

// UpdateFollowUp replaces a job's follow-up date.
func (s *Store) UpdateFollowUp(id int64, followUpAt time.Time) error {
	_, err := s.db.Exec(`UPDATE jobs SET follow_up_at = ? WHERE id = ?`,
		followUpAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating job %d follow-up: %w", id, err)
	}
	return nil
}

// Delete removes a job.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting job %d: %w", id, err)
	}
	return nil
}

// CountByStatus returns how many jobs sit in each review status, plus a
// "Total" entry.
func (s *Store) CountByStatus() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting jobs: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		StatusNew:      0,
		StatusSaved:    0,
		StatusApplied:  0,
		StatusRejected: 0,
	}
	total := 0
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[status] = n
		total += n
	}
	counts["Total"] = total
	return counts, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
