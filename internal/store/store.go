// Package store persists contact form submissions in an append-only record log.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is ISO-8601 with second precision and no zone, the format
// every stored record carries.
const TimestampLayout = "2006-01-02T15:04:05"

// Columns is the fixed column order of the record log.
var Columns = []string{"timestamp", "name", "email", "message"}

// ContactMessage is one stored submission.
type ContactMessage struct {
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// NewContactMessage stamps a submission with the given time. Line breaks
// are stored as "\n"; browsers send textarea input with "\r\n".
func NewContactMessage(at time.Time, name, email, message string) ContactMessage {
	return ContactMessage{
		Timestamp: at.Format(TimestampLayout),
		Name:      name,
		Email:     email,
		Message:   message,
	}.canonical()
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// canonical returns m with every line break as "\n". The CSV reader drops
// "\r" inside quoted fields, so only canonical records read back unchanged.
func (m ContactMessage) canonical() ContactMessage {
	m.Name = lineBreaks.Replace(m.Name)
	m.Email = lineBreaks.Replace(m.Email)
	m.Message = lineBreaks.Replace(m.Message)
	return m
}

// Row returns the record's fields in column order.
func (m ContactMessage) Row() []string {
	return []string{m.Timestamp, m.Name, m.Email, m.Message}
}

// complete reports whether all four fields are populated.
func (m ContactMessage) complete() bool {
	return m.Timestamp != "" && m.Name != "" && m.Email != "" && m.Message != ""
}

// MessageStore is the durable record log behind the contact form.
type MessageStore interface {
	// Append adds a record at the end of the log.
	Append(msg ContactMessage) error
	// LoadAll returns every record in append order. A log that does not
	// exist yet yields an empty slice.
	LoadAll() ([]ContactMessage, error)
	// Location names where records are persisted.
	Location() string
}

// Kind classifies a storage failure.
type Kind string

const (
	KindUnwritable Kind = "UNWRITABLE"
	KindCorrupt    Kind = "CORRUPT"
)

var (
	// ErrUnwritable matches any StorageError of kind KindUnwritable.
	ErrUnwritable = errors.New("record log is not writable")
	// ErrCorrupt matches any StorageError of kind KindCorrupt.
	ErrCorrupt = errors.New("record log is corrupt")
	// ErrIncomplete is returned when a record is missing a field.
	ErrIncomplete = errors.New("record is missing fields")
)

// StorageError reports a failure of the record log.
type StorageError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrUnwritable:
		return e.Kind == KindUnwritable
	case ErrCorrupt:
		return e.Kind == KindCorrupt
	}
	return false
}

func unwritable(path string, err error) error {
	return &StorageError{Kind: KindUnwritable, Path: path, Err: err}
}

func corrupt(path string, err error) error {
	return &StorageError{Kind: KindCorrupt, Path: path, Err: err}
}
