package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CSVStore keeps the record log as a CSV file with a header row. Every
// append rewrites the whole file through a temp file and a rename, so a
// reader sees either the previous set of rows or the new one.
type CSVStore struct {
	path   string
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

var _ MessageStore = (*CSVStore)(nil)

// NewCSVStore returns a store backed by the CSV file at path. The file is
// created on first append.
func NewCSVStore(path string, logger *zap.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Location returns the path of the CSV file.
func (s *CSVStore) Location() string {
	return s.path
}

// Append adds msg after the existing rows. If the existing file cannot be
// parsed it is moved aside and a new log is started with msg as its only
// row.
func (s *CSVStore) Append(msg ContactMessage) error {
	msg = msg.canonical()
	if !msg.complete() {
		return fmt.Errorf("append: %w", ErrIncomplete)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		backup, qerr := s.quarantine()
		if qerr != nil {
			return unwritable(s.path, qerr)
		}
		s.logger.Warn("Record log was corrupt, started a new one",
			zap.String("path", s.path),
			zap.String("backup", backup),
			zap.Error(err),
		)
		existing = nil
	}

	if err := s.write(append(existing, msg)); err != nil {
		return err
	}
	s.logger.Debug("Appended contact message",
		zap.String("path", s.path),
		zap.Int("rows", len(existing)+1),
	)
	return nil
}

// LoadAll returns the stored rows in file order.
func (s *CSVStore) LoadAll() ([]ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []ContactMessage{}
	}
	return records, nil
}

// read parses the log. A missing or zero-byte file is an empty log.
func (s *CSVStore) read() ([]ContactMessage, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, unwritable(s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, corrupt(s.path, err)
	}
	if !slices.Equal(header, Columns) {
		return nil, corrupt(s.path, fmt.Errorf("unexpected header %q", header))
	}

	var records []ContactMessage
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, corrupt(s.path, err)
		}
		msg := ContactMessage{Timestamp: row[0], Name: row[1], Email: row[2], Message: row[3]}
		if !msg.complete() {
			return nil, corrupt(s.path, fmt.Errorf("row %d: %w", line, ErrIncomplete))
		}
		records = append(records, msg)
	}
	return records, nil
}

// write replaces the log with header plus records.
func (s *CSVStore) write(records []ContactMessage) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return unwritable(s.path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return unwritable(s.path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		return unwritable(s.path, err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return unwritable(s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return unwritable(s.path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return unwritable(s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		return unwritable(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return unwritable(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return unwritable(s.path, err)
	}
	committed = true
	return nil
}

// quarantine moves an unreadable log aside and returns the backup path.
func (s *CSVStore) quarantine() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().Format("20060102T150405"))
	if err := os.Rename(s.path, backup); err != nil {
		return "", err
	}
	return backup, nil
}
