package journey

import "time"

// Entry is the recorded outcome of one attempted step.
type Entry struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Kind     FailureKind   `json:"kind,omitempty"`
	Message  string        `json:"message"`
	Time     time.Time     `json:"time"`
	Duration time.Duration `json:"duration_ns"`
}

// Log is the append-only, insertion-ordered record of one run.
// Only the Runner appends to it.
type Log struct {
	runID   string
	entries []Entry
}

func newLog(runID string) *Log {
	return &Log{runID: runID}
}

func (l *Log) append(e Entry) {
	l.entries = append(l.entries, e)
}

// RunID identifies the run that produced the log.
func (l *Log) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in execution order.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
