package consent

import (
	"context"
	"errors"
	"time"

	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/drift"
	"github.com/mnemos-ai/mnemos/service/messaging"
)

var (
	// ErrEmptyMemoryID indicates an await/approve/deny call without an id.
	ErrEmptyMemoryID = errors.New("consent: empty memory id")

	// ErrNotFound indicates a decision call for a memory id with no known
	// request round. No audit entry is written for it.
	ErrNotFound = errors.New("consent: request not found")
)

// Service is the decision gate. It suspends callers of AwaitDecision until a
// decision source resolves the round or its deadline expires; absence of an
// explicit decision is never treated as approval.
type Service interface {
	// AwaitDecision opens a round for memoryID and blocks until a verdict
	// exists. Auto modes resolve synchronously. Every resolution appends
	// exactly one consent_decision ledger entry. A timeout <= 0 selects the
	// configured default. When ctx is cancelled the call returns a denial to
	// its caller, but the round still reaches a terminal state on its own
	// clock.
	AwaitDecision(ctx context.Context, memoryID string, advisory *drift.Advisory, timeout time.Duration) (Verdict, error)

	// Approve resolves the pending round for memoryID with approval. Called
	// on an already-terminal round it returns the recorded verdict without a
	// second ledger entry.
	Approve(ctx context.Context, memoryID string) (*Resolution, error)

	// Deny is the denial counterpart of Approve, with the same idempotence.
	Deny(ctx context.Context, memoryID string) (*Resolution, error)

	// ListPending returns the rounds still awaiting a verdict, oldest first.
	ListPending(ctx context.Context) ([]*Pending, error)

	// Mode returns the current operating mode.
	Mode() policy.Mode

	// SetMode switches the operating mode for rounds created afterwards;
	// in-flight rounds keep the mode they were created under.
	SetMode(mode policy.Mode) error

	// RegisterDecider installs the decision callback for voice or custom
	// mode. The gate holds at most one decider per mode.
	RegisterDecider(mode policy.Mode, decider policy.Decider) error

	// Queue exposes the gate's event fan-out.
	Queue() messaging.Queue[Event]
}
