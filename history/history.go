package history

import "time"

type Action string

const (
	ActionCompleted Action = "Completed"
	ActionDeleted   Action = "Deleted"
)

// Entry is one audit record. Entries are never mutated once appended.
type Entry struct {
	Action Action    `json:"action"`
	Task   string    `json:"task"`
	Author string    `json:"author"`
	Time   time.Time `json:"time"`
}

// Log is an append-only, unbounded audit trail kept in insertion order.
// It is not safe for concurrent use; the board serialises access.
type Log struct {
	entries []Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(entry Entry) {
	l.entries = append(l.entries, entry)
}

// List returns a copy of all entries, oldest first.
func (l *Log) List() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	return len(l.entries)
}
