package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord_NormalizesDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 1990-02-01 06:30 in UTC+10 is still 1 February locally.
	dob := time.Date(1990, time.February, 1, 6, 30, 15, 42, loc)

	r := NewRecord("Test Name", dob, "name@email.com")

	assert.Equal(t, time.Date(1990, time.February, 1, 0, 0, 0, 0, time.UTC), r.DateOfBirth())
	assert.Equal(t, "Test Name", r.Name())
	assert.Equal(t, "name@email.com", r.Email())
}

func TestRecord_MillisRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		dob  time.Time
	}{
		{"ordinary date", time.Date(1990, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"before epoch", time.Date(1969, time.July, 20, 0, 0, 0, 0, time.UTC)},
		{"epoch", time.Unix(0, 0).UTC()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRecord("n", tc.dob, "e")
			got := DateFromMillis(r.DateOfBirthMillis())
			assert.True(t, got.Equal(r.DateOfBirth()), "got %s want %s", got, r.DateOfBirth())
		})
	}
}

func TestRecord_Equal(t *testing.T) {
	a := NewRecordFromDate("Test Name", 1990, time.February, 1, "name@email.com")

	assert.True(t, a.Equal(NewRecord("Test Name", time.Date(1990, 2, 1, 23, 59, 0, 0, time.UTC), "name@email.com")))
	assert.False(t, a.Equal(NewRecordFromDate("Other", 1990, time.February, 1, "name@email.com")))
	assert.False(t, a.Equal(NewRecordFromDate("Test Name", 1990, time.February, 2, "name@email.com")))
	assert.False(t, a.Equal(NewRecordFromDate("Test Name", 1990, time.February, 1, "other@email.com")))
}

func TestRecord_ZeroValue(t *testing.T) {
	var r Record
	assert.Empty(t, r.Name())
	assert.Empty(t, r.Email())
	assert.True(t, r.DateOfBirth().IsZero())
}
