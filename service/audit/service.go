package audit

import (
	"context"
	"errors"
)

var (
	// ErrMalformedEntry indicates an entry missing its action or subject.
	ErrMalformedEntry = errors.New("audit: malformed entry")
)

// Ledger is the append-only event log shared by the vault and the consent
// gate. There is deliberately no way to mutate or remove a past entry.
//
// Append assigns the sequence number and, when unset, the timestamp. It must
// be safe under concurrent writers – partially applied entries are never
// observable.
type Ledger interface {
	Append(ctx context.Context, entry *Entry) error

	// All returns a snapshot of the full ledger in sequence order.
	All(ctx context.Context) ([]*Entry, error)

	// Filter returns the entries matching the query, in sequence order.
	Filter(ctx context.Context, query Query) ([]*Entry, error)
}
