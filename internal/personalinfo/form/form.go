// Package form implements the edit/save/revert workflow around the personal info
// record: it feeds every email edit to the validator, refuses to save an invalid email,
// and repopulates its fields from storage on load and revert.
package form

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"personalinfo/internal/personalinfo/metrics"
	"personalinfo/internal/personalinfo/models"
	"personalinfo/internal/personalinfo/validator"
)

var (
	// ErrInvalidEmail is returned by Save when the current email fails validation.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrSaveFailed is returned by Save when the store rejected the write.
	ErrSaveFailed = errors.New("failed to save personal information")
)

// Store is the persistence the form saves to and loads from.
type Store interface {
	SavePersonalInfo(ctx context.Context, record models.Record) bool
	GetPersonalInfo(ctx context.Context) models.Record
}

// Form holds the editable field state. A Form is used by one caller at a time.
type Form struct {
	store       Store
	email       *validator.EmailValidator
	name        string
	dateOfBirth time.Time
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(f *Form)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Form) {
		f.metrics = m
	}
}

// New returns an empty form bound to store. Call Load to populate it.
func New(store Store, opts ...Option) *Form {
	f := &Form{
		store: store,
		email: validator.NewEmailValidator(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load replaces every field with the stored record.
func (f *Form) Load(ctx context.Context) models.Record {
	record := f.store.GetPersonalInfo(ctx)
	f.name = record.Name()
	f.dateOfBirth = record.DateOfBirth()
	f.SetEmail(record.Email())
	return record
}

// Revert discards unsaved edits.
func (f *Form) Revert(ctx context.Context) models.Record {
	record := f.Load(ctx)
	if f.logger != nil {
		f.logger.InfoContext(ctx, "personal information reverted")
	}
	return record
}

func (f *Form) SetName(name string) {
	f.name = name
}

func (f *Form) SetDateOfBirth(year int, month time.Month, day int) {
	f.dateOfBirth = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SetEmail updates the email field and revalidates it.
func (f *Form) SetEmail(email string) {
	f.email.OnTextChanged(email)
}

// EmailValid reports whether the current email would pass Save.
func (f *Form) EmailValid() bool {
	return f.email.IsValid()
}

// Snapshot returns the current field state as a record.
func (f *Form) Snapshot() models.Record {
	return models.NewRecord(f.name, f.dateOfBirth, f.email.Text())
}

// Save persists the current fields. The store is not called when the email is
// invalid.
func (f *Form) Save(ctx context.Context) (models.Record, error) {
	if !f.email.IsValid() {
		if f.metrics != nil {
			f.metrics.IncrementInvalidEmail()
		}
		if f.logger != nil {
			f.logger.WarnContext(ctx, "not saving personal information: invalid email")
		}
		return models.Record{}, ErrInvalidEmail
	}

	record := f.Snapshot()
	if !f.store.SavePersonalInfo(ctx, record) {
		return models.Record{}, ErrSaveFailed
	}
	return record, nil
}
