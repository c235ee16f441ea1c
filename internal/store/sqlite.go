package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SQLiteStore keeps the record log as an append-only SQLite table. Each
// append is a single INSERT, so no existing row is ever rewritten.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ MessageStore = (*SQLiteStore)(nil)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL
)`

// NewSQLiteStore prepares the contact_messages table in db. path is only
// used for reporting.
func NewSQLiteStore(db *sql.DB, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create contact_messages table: %w", err)
	}
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// Location reports the database file and table.
func (s *SQLiteStore) Location() string {
	return s.path + "#contact_messages"
}

// Append inserts msg as the newest row.
func (s *SQLiteStore) Append(msg ContactMessage) error {
	msg = msg.canonical()
	if !msg.complete() {
		return fmt.Errorf("append: %w", ErrIncomplete)
	}

	res, err := s.db.Exec(`
		INSERT INTO contact_messages (timestamp, name, email, message)
		VALUES (?, ?, ?, ?)
	`, msg.Timestamp, msg.Name, msg.Email, msg.Message)
	if err != nil {
		return unwritable(s.Location(), err)
	}

	id, _ := res.LastInsertId()
	s.logger.Debug("Appended contact message", zap.Int64("id", id))
	return nil
}

// LoadAll returns every row in insertion order.
func (s *SQLiteStore) LoadAll() ([]ContactMessage, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, name, email, message
		FROM contact_messages
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, unwritable(s.Location(), err)
	}
	defer rows.Close()

	records := []ContactMessage{}
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.Timestamp, &m.Name, &m.Email, &m.Message); err != nil {
			return nil, corrupt(s.Location(), err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, corrupt(s.Location(), err)
	}
	return records, nil
}
