package memory

import (
	"context"
	"sync"

	"github.com/mnemos-ai/mnemos/internal/clock"
	"github.com/mnemos-ai/mnemos/service/audit"
)

// Service is the in-memory ledger implementation. A single mutex serialises
// appends from the vault and the gate so entries never interleave; reads hand
// out deep copies in sequence order.
type Service struct {
	mu      sync.RWMutex
	nextSeq uint64
	entries []*audit.Entry
}

// New creates an empty in-memory ledger. Sequence numbers start at 1.
func New() *Service {
	return &Service{nextSeq: 1}
}

// Append records one entry, assigning its sequence number and, when unset,
// its timestamp.
func (s *Service) Append(_ context.Context, entry *audit.Entry) error {
	if entry == nil || entry.Action == "" || entry.SubjectID == "" {
		return audit.ErrMalformedEntry
	}
	stored := entry.Clone()
	if stored.Timestamp.IsZero() {
		stored.Timestamp = clock.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored.Seq = s.nextSeq
	s.nextSeq++
	s.entries = append(s.entries, stored)

	// Reflect the assigned sequence back so callers can reference it.
	entry.Seq = stored.Seq
	entry.Timestamp = stored.Timestamp
	return nil
}

// All returns a snapshot of the ledger in sequence order.
func (s *Service) All(_ context.Context) ([]*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*audit.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out, nil
}

// Filter returns matching entries in sequence order.
func (s *Service) Filter(_ context.Context, query audit.Query) ([]*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*audit.Entry
	for _, e := range s.entries {
		if query.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// Len reports the number of recorded entries.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ audit.Ledger = (*Service)(nil)
