// Package fs provides a filesystem-backed audit ledger. Every entry is
// persisted as its own JSON document through viant/afs, so the ledger works
// against any storage scheme afs understands (file, mem, s3, gs, ...). The
// sequence counter is recovered from existing documents on open, which keeps
// the ordering invariant intact across restarts.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/mnemos-ai/mnemos/internal/clock"
	"github.com/mnemos-ai/mnemos/service/audit"
)

// Service implements audit.Ledger on top of a filesystem location.
type Service struct {
	basePath string
	fs       afs.Service

	mu      sync.RWMutex
	nextSeq uint64
	entries []*audit.Entry
}

var _ audit.Ledger = (*Service)(nil)

// New opens (or creates) a ledger at basePath and replays existing entries
// to recover the sequence counter.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fsService := afs.New()
	ctx := context.Background()
	exists, _ := fsService.Exists(ctx, basePath)
	if !exists {
		if err := fsService.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	s := &Service{
		basePath: basePath,
		fs:       fsService,
		nextSeq:  1,
	}
	if err := s.replay(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Append persists one entry and extends the in-memory snapshot. The write is
// performed under the ledger lock so concurrent writers never interleave.
func (s *Service) Append(ctx context.Context, entry *audit.Entry) error {
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

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	filePath := s.entryPath(stored.Seq)
	if err := s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist audit entry %s: %w", filePath, err)
	}

	s.nextSeq++
	s.entries = append(s.entries, stored)
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

func (s *Service) replay(ctx context.Context) error {
	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return fmt.Errorf("failed to list ledger entries: %w", err)
	}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return fmt.Errorf("failed to read ledger entry %s: %w", object.URL(), err)
		}
		var entry audit.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal ledger entry %s: %w", object.URL(), err)
		}
		s.entries = append(s.entries, &entry)
	}
	sort.Slice(s.entries, func(i, j int) bool { return s.entries[i].Seq < s.entries[j].Seq })
	if n := len(s.entries); n > 0 {
		s.nextSeq = s.entries[n-1].Seq + 1
	}
	return nil
}

// entryPath zero-pads the sequence so lexical file order matches ledger order.
func (s *Service) entryPath(seq uint64) string {
	return url.Join(s.basePath, fmt.Sprintf("%020d.json", seq))
}
