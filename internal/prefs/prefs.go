// Package prefs defines the key-value capability the personal info adapter persists
// through. A Backend applies a Batch of writes as a single commit and reads values back
// by key. Values travel as strings; integers are encoded in base 10.
//
// Implementations live in the memory, redis, postgres and sqlite subpackages.
package prefs

//go:generate mockgen -source=prefs.go -destination=mocks/mocks.go -package=mocks Backend,Pinger

import (
	"context"
	"strconv"
)

// DefaultNamespace scopes keys when a backend is shared with other data.
const DefaultNamespace = "personal_info"

// Backend is the minimal persistence capability: all-or-nothing batch commit and
// multi-key read. Read returns only keys that are present; absence is not an error.
type Backend interface {
	Commit(ctx context.Context, batch *Batch) error
	Read(ctx context.Context, keys []string) (map[string]string, error)
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Entry is a single encoded write.
type Entry struct {
	Key   string
	Value string
}

// Batch collects writes for one commit. Later puts of the same key win.
type Batch struct {
	entries []Entry
	index   map[string]int
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{index: make(map[string]int)}
}

// PutString stages a string value.
func (b *Batch) PutString(key, value string) *Batch {
	b.put(key, value)
	return b
}

// PutInt64 stages an integer value.
func (b *Batch) PutInt64(key string, value int64) *Batch {
	b.put(key, strconv.FormatInt(value, 10))
	return b
}

func (b *Batch) put(key, value string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.entries[i].Value = value
		return
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Value: value})
}

// Entries returns the staged writes in insertion order.
func (b *Batch) Entries() []Entry {
	if b == nil {
		return nil
	}
	return append([]Entry(nil), b.entries...)
}

// Len reports the number of distinct keys staged.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Map returns the staged writes keyed by name.
func (b *Batch) Map() map[string]string {
	out := make(map[string]string, b.Len())
	for _, e := range b.Entries() {
		out[e.Key] = e.Value
	}
	return out
}

// Values is a read-side view over what a backend returned.
type Values map[string]string

// String returns the value for key, or def when absent.
func (v Values) String(key, def string) string {
	if s, ok := v[key]; ok {
		return s
	}
	return def
}

// LookupInt64 decodes the integer for key; ok is false when absent or malformed.
func (v Values) LookupInt64(key string) (int64, bool) {
	s, ok := v[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Has reports whether key was present in the read.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}
