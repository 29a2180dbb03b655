package vault

import (
	"context"
	"errors"

	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/service/audit"
)

var (
	// ErrEmptyID indicates a store/lookup call without a memory id.
	ErrEmptyID = errors.New("vault: empty memory id")
)

// Service is the resonance-tagged memory store. All mutating operations are
// serialised per instance; reads may run concurrently but never observe a
// partially applied write. Every successful mutation appends exactly one
// ledger entry.
type Service interface {
	// Store creates or overwrites a shard. Re-use of an id is recorded as a
	// modification, not a fresh create.
	Store(ctx context.Context, id string, payload map[string]interface{}, tag resonance.Tag) (*MemoryShard, error)

	// Get returns a copy of the shard, or nil when absent.
	Get(ctx context.Context, id string) (*MemoryShard, error)

	// Query returns matching shards in insertion order among matches.
	Query(ctx context.Context, criteria Criteria) ([]*MemoryShard, error)

	// Delete removes a shard if present and reports whether it did.
	// Deleting a non-existent id is not an error and is not logged.
	Delete(ctx context.Context, id string) (bool, error)

	// AuditLog returns the ledger snapshot in sequence order.
	AuditLog(ctx context.Context) ([]*audit.Entry, error)
}
