package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

const insertRecord = `INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Store persists audit records to the messages table.
type Store struct {
	db *sql.DB
}

// Open connects to the audit database at url.
func Open(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	return &Store{db: db}, nil
}

// FromEnv opens AUDIT_DATABASE_URL. It returns a nil Store when the
// variable is unset.
func FromEnv() (*Store, error) {
	url := os.Getenv("AUDIT_DATABASE_URL")
	if url == "" {
		return nil, nil
	}
	return Open(url)
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts rec.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return nil
	}

	sdata, err := json.Marshal(rec.SD)
	if err != nil {
		return fmt.Errorf("failed to encode structured data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		rec.Facility,
		int(rec.Severity),
		rec.Timestamp,
		rec.Hostname,
		AppName,
		rec.ProcID,
		rec.MsgID,
		sdata,
		rec.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
