package consent

import (
	"time"

	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/drift"
)

// State is the lifecycle position of a consent request. A request leaves
// pending exactly once and never returns.
type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateDenied   State = "denied"
	StateTimedOut State = "timed_out"
)

// Verdict is the outcome handed back to the caller. A timed-out request is
// functionally a denial; the audit detail records the distinction.
type Verdict string

const (
	VerdictApproved Verdict = "approved"
	VerdictDenied   Verdict = "denied"
)

// Request is one decision round for a memory id. The advisory snapshot is
// taken at creation time – later store changes never alter it.
type Request struct {
	ID        string          `json:"id"` // round id, sortable by creation time
	MemoryID  string          `json:"memoryId"`
	State     State           `json:"state"`
	Mode      policy.Mode     `json:"mode"` // mode the round was created under
	Advisory  *drift.Advisory `json:"advisory,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Deadline  time.Time       `json:"deadline"`
	Verdict   Verdict         `json:"verdict,omitempty"`
	TimedOut  bool            `json:"timedOut,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Terminal reports whether the request reached its final state.
func (r *Request) Terminal() bool {
	return r.State != StatePending
}

// Pending is the projection exposed by ListPending.
type Pending struct {
	MemoryID  string    `json:"memoryId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resolution is the result of an approve/deny call.
type Resolution struct {
	MemoryID string  `json:"memoryId"`
	Verdict  Verdict `json:"verdict"`
}

// Event envelope published on the gate's queue.
type Event struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"` // *Request | *Resolution
}

// Event topics.
const (
	TopicRequestCreated  = "request.created"
	TopicRequestExpired  = "request.expired"
	TopicDecisionCreated = "decision.created"
)
