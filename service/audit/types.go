package audit

import (
	"time"
)

// Action identifies the kind of event recorded in the ledger.
type Action string

const (
	ActionStore           Action = "store"
	ActionModify          Action = "modify"
	ActionDelete          Action = "delete"
	ActionConsentDecision Action = "consent_decision"
)

// Entry is one immutable ledger record. Seq is assigned by the ledger on
// append and increases monotonically – history order never depends on the
// wall clock, so clock adjustments cannot reorder it.
type Entry struct {
	Seq       uint64                 `json:"seq"`
	Timestamp time.Time              `json:"timestamp"`
	Action    Action                 `json:"action"`
	SubjectID string                 `json:"subjectId"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
}

// Clone returns a deep copy so callers can never mutate recorded history.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Detail != nil {
		clone.Detail = make(map[string]interface{}, len(e.Detail))
		for k, v := range e.Detail {
			clone.Detail[k] = v
		}
	}
	return &clone
}

// Query narrows the ledger view. Zero-value fields match everything.
type Query struct {
	Action    Action
	SubjectID string
	From      time.Time
	To        time.Time
}

// Matches reports whether the entry satisfies the query.
func (q Query) Matches(e *Entry) bool {
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if q.SubjectID != "" && e.SubjectID != q.SubjectID {
		return false
	}
	if !q.From.IsZero() && e.Timestamp.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.Timestamp.After(q.To) {
		return false
	}
	return true
}
