// Package contact implements the contact form: input capture, validation
// and handing accepted submissions to the record log.
package contact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayush-velhal/portfolio/internal/store"
)

// State is the form's position in the submit cycle.
type State int

const (
	Editing State = iota
	Submitting
	Accepted
	Rejected
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether s ends a submit cycle.
func (s State) Terminal() bool {
	return s == Accepted || s == Rejected
}

var transitions = map[State][]State{
	Editing:    {Submitting},
	Submitting: {Accepted, Rejected},
	Accepted:   {Editing},
	Rejected:   {Editing},
}

// Notices shown to the visitor.
const (
	NoticeInvalid      = "Please fill out all fields."
	NoticeStorageError = "Sorry, your message could not be saved. Please try again."
	noticeAccepted     = "Message sent! (Saved to %s)"
)

// Fields holds the free text typed into the form.
type Fields struct {
	Name    string `form:"name" json:"name" validate:"notblank"`
	Email   string `form:"email" json:"email" validate:"notblank"`
	Message string `form:"message" json:"message" validate:"notblank"`
}

// Sink receives accepted submissions.
type Sink interface {
	Append(msg store.ContactMessage) error
	Location() string
}

// Outcome is the result of one submit cycle.
type Outcome struct {
	State  State
	Notice string
	// Err is a *ValidationError or a *store.StorageError when State is Rejected.
	Err error
	// Record is the stored message when State is Accepted.
	Record *store.ContactMessage
}

// Missing returns the blank field names of a validation rejection.
func (o Outcome) Missing() []string {
	var verr *ValidationError
	if errors.As(o.Err, &verr) {
		return verr.MissingFields
	}
	return nil
}

// Option configures a Form.
type Option func(*Form)

// WithClock overrides the submission clock.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithObserver registers a callback invoked with every outcome.
func WithObserver(fn func(Outcome)) Option {
	return func(f *Form) { f.observers = append(f.observers, fn) }
}

// Form is a single contact form instance.
type Form struct {
	sink      Sink
	logger    *zap.Logger
	now       func() time.Time
	observers []func(Outcome)

	state  State
	fields Fields
}

// NewForm returns an empty form in the Editing state.
func NewForm(sink Sink, logger *zap.Logger, opts ...Option) *Form {
	f := &Form{
		sink:   sink,
		logger: logger,
		now:    time.Now,
		state:  Editing,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state. After Submit it is Accepted or Rejected
// until the next Edit or Submit.
func (f *Form) State() State {
	return f.state
}

// Fields returns the values currently held by the form.
func (f *Form) Fields() Fields {
	return f.fields
}

// Edit replaces the field values, returning the form to Editing.
func (f *Form) Edit(fields Fields) {
	if f.state.Terminal() {
		f.transition(Editing)
	}
	f.fields = fields
}

// Submit validates the held values and stores them when valid. Accepted
// clears the fields; Rejected keeps them so the same input can be retried.
func (f *Form) Submit() Outcome {
	if f.state.Terminal() {
		f.transition(Editing)
	}
	f.transition(Submitting)

	out := f.submit()
	f.transition(out.State)
	if out.State == Accepted {
		f.fields = Fields{}
	}

	for _, fn := range f.observers {
		fn(out)
	}
	return out
}

func (f *Form) submit() Outcome {
	if err := f.fields.Validate(); err != nil {
		f.logger.Debug("Contact form rejected", zap.Error(err))
		return Outcome{State: Rejected, Notice: NoticeInvalid, Err: err}
	}

	record := store.NewContactMessage(f.now(), f.fields.Name, f.fields.Email, NormalizeMessage(f.fields.Message))
	if err := f.sink.Append(record); err != nil {
		f.logger.Error("Failed to store contact message",
			zap.String("location", f.sink.Location()),
			zap.Error(err),
		)
		return Outcome{State: Rejected, Notice: NoticeStorageError, Err: err}
	}

	f.logger.Info("Contact message stored",
		zap.String("location", f.sink.Location()),
		zap.String("timestamp", record.Timestamp),
	)
	return Outcome{
		State:  Accepted,
		Notice: fmt.Sprintf(noticeAccepted, f.sink.Location()),
		Record: &record,
	}
}

func (f *Form) transition(to State) {
	if !slices.Contains(transitions[f.state], to) {
		panic(fmt.Sprintf("contact: illegal transition %s -> %s", f.state, to))
	}
	f.state = to
}

// NormalizeMessage replaces each literal backslash-n sequence with two
// spaces so a record stays on one line while keeping a soft break.
func NormalizeMessage(message string) string {
	return strings.ReplaceAll(message, `\n`, "  ")
}
