package model

// Status is the lifecycle state of a research record
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSuspended  Status = "suspended"
)

// IsTerminal reports whether no further progress updates will occur.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Research modes
const (
	ModeQuick    = "quick"
	ModeDetailed = "detailed"
)

// Call outcome reported in success_status
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Response envelope status
const (
	EnvelopeSuccess = "success"
	EnvelopeError   = "error"
)
