// Package models holds the personal info record.
package models

import "time"

// Record is the personal information captured by the form.
//
// Invariants:
//   - Immutable after construction; there are no setters
//   - DateOfBirth is a calendar date held as midnight UTC, so it survives an
//     epoch-millisecond round trip unchanged
//   - Email is not validated here; the form workflow gates saves on validity
type Record struct {
	name        string
	dateOfBirth time.Time
	email       string
}

// NewRecord builds a record, reducing dateOfBirth to its calendar date in its own
// location.
func NewRecord(name string, dateOfBirth time.Time, email string) Record {
	return Record{
		name:        name,
		dateOfBirth: DateOf(dateOfBirth),
		email:       email,
	}
}

// NewRecordFromDate builds a record from explicit year, month and day.
func NewRecordFromDate(name string, year int, month time.Month, day int, email string) Record {
	return Record{
		name:        name,
		dateOfBirth: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		email:       email,
	}
}

func (r Record) Name() string {
	return r.name
}

func (r Record) DateOfBirth() time.Time {
	return r.dateOfBirth
}

func (r Record) Email() string {
	return r.email
}

// DateOfBirthMillis is the stored encoding of DateOfBirth.
func (r Record) DateOfBirthMillis() int64 {
	return r.dateOfBirth.UnixMilli()
}

// Equal reports field equality; two records with the same name, date and email are
// interchangeable.
func (r Record) Equal(other Record) bool {
	return r.name == other.name &&
		r.email == other.email &&
		r.dateOfBirth.Equal(other.dateOfBirth)
}

// DateOf returns midnight UTC of t's calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateFromMillis decodes a stored epoch-millisecond value back to a calendar date.
func DateFromMillis(ms int64) time.Time {
	return DateOf(time.UnixMilli(ms).UTC())
}
