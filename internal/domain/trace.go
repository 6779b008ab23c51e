package domain

// TraceStatus is the status tag on a trace entry.
type TraceStatus string

const (
	TraceProcessing TraceStatus = "processing"
	TraceCompleted  TraceStatus = "completed"
	TraceDenied     TraceStatus = "denied"
	TraceError      TraceStatus = "error"
)

// TraceEntry is one record in the per-request audit trail.
type TraceEntry struct {
	Stage   string         `json:"stage"`
	Action  string         `json:"action"`
	Detail  string         `json:"detail,omitempty"`
	Status  TraceStatus    `json:"status"`
	Color   string         `json:"-"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Trace is the ordered, append-only log shared by all pipeline stages. Entries
// are never removed or reordered once appended.
type Trace struct {
	entries []TraceEntry
}

// Append adds one entry to the end of the trace.
func (t *Trace) Append(entry TraceEntry) {
	t.entries = append(t.entries, entry)
}

// Entries returns a copy of the trace in append order.
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len is the number of entries appended so far.
func (t *Trace) Len() int {
	return len(t.entries)
}
