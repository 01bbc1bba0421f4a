package recent

import "strings"

// Capacity bounds.
const (
	MinCapacity     = 5
	MaxCapacity     = 10
	DefaultCapacity = 8
)

// Buffer is a bounded, newest-first list of recent search terms owned by one session.
// It is a plain value; persistence is the caller's job.
type Buffer struct {
	capacity int
	items    []string
}

// New creates an empty buffer. capacity is clamped to [MinCapacity, MaxCapacity];
// zero or negative selects DefaultCapacity.
func New(capacity int) Buffer {
	return Buffer{capacity: clamp(capacity)}
}

// Reconstruct hydrates a buffer from stored items (newest first), dropping the
// overflow when capacity shrank.
func Reconstruct(capacity int, items []string) Buffer {
	b := New(capacity)
	for i := len(items) - 1; i >= 0; i-- {
		b.Add(items[i])
	}
	return b
}

// Add records term as the newest entry. Empty terms are ignored; an existing
// case-insensitive duplicate moves to the front with the new spelling.
func (b *Buffer) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	if b.capacity == 0 {
		b.capacity = DefaultCapacity
	}
	out := make([]string, 0, b.capacity)
	out = append(out, term)
	for _, it := range b.items {
		if strings.EqualFold(it, term) {
			continue
		}
		if len(out) == b.capacity {
			break
		}
		out = append(out, it)
	}
	b.items = out
}

// Items returns a copy of the entries, newest first.
func (b *Buffer) Items() []string {
	out := make([]string, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of entries.
func (b *Buffer) Len() int { return len(b.items) }

// Capacity returns the bound.
func (b *Buffer) Capacity() int {
	if b.capacity == 0 {
		return DefaultCapacity
	}
	return b.capacity
}

// Clear drops all entries.
func (b *Buffer) Clear() { b.items = nil }

func clamp(c int) int {
	switch {
	case c <= 0:
		return DefaultCapacity
	case c < MinCapacity:
		return MinCapacity
	case c > MaxCapacity:
		return MaxCapacity
	}
	return c
}
