// Package audit persists one record per processed chat request. SQLite is the
// primary backend; a jsonl file store stands in when the database cannot be
// opened.
package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// SQLiteStore persists audit records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the audit database under dir. On any open
// or schema error the store degrades to the jsonl file fallback.
func NewSQLiteStore(dir string) *SQLiteStore {
	path := filepath.Join(dir, "audit.db")
	_ = os.MkdirAll(dir, 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		session_id TEXT,
		message TEXT,
		domains TEXT,
		granted INTEGER,
		denied INTEGER,
		errored INTEGER,
		trace_steps INTEGER,
		answer TEXT
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return &FileStore{path: strings.TrimSuffix(s.path, ".db") + ".jsonl"}
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.AuditRecord) error {
	if s.db == nil {
		return s.fallback().Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO requests
		(timestamp, session_id, message, domains, granted, denied, errored, trace_steps, answer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.SessionID,
		record.Message,
		strings.Join(record.Domains, ","),
		record.Granted,
		record.Denied,
		record.Errored,
		record.TraceSteps,
		record.Answer,
	)
	return err
}

// Records returns audit entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.AuditRecord, error) {
	if s.db == nil {
		return s.fallback().Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, session_id, message, domains, granted, denied, errored, trace_steps, answer FROM requests")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE message LIKE ? OR answer LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var ts, domains string
		if err := rows.Scan(&ts, &rec.SessionID, &rec.Message, &domains, &rec.Granted, &rec.Denied, &rec.Errored, &rec.TraceSteps, &rec.Answer); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		if domains != "" {
			rec.Domains = strings.Split(domains, ",")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all audit entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	_, err := s.db.Exec("DELETE FROM requests")
	return err
}

// ExportJSON writes the audit table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.AuditStore = (*SQLiteStore)(nil)
