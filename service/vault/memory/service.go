package memory

import (
	"context"
	"sync"

	"github.com/mnemos-ai/mnemos/internal/clock"
	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/service/audit"
	"github.com/mnemos-ai/mnemos/service/dao/store"
	"github.com/mnemos-ai/mnemos/service/vault"
)

type service struct {
	// write mutex keeps a shard mutation and its ledger entry atomic with
	// respect to other writers; shard reads go through the DAO's own lock.
	mu     sync.Mutex
	shards *store.MemoryStore[string, vault.MemoryShard]
	ledger audit.Ledger
	vocab  resonance.Vocabulary
}

func shardKey(s *vault.MemoryShard) string { return s.ID }

// Option customises the vault service.
type Option func(*service)

// WithExtraTones extends the tone vocabulary accepted by this instance. The
// vocabulary is fixed once the service is constructed.
func WithExtraTones(tones ...resonance.Tone) Option {
	return func(s *service) { s.vocab = resonance.NewVocabulary(tones...) }
}

// New creates an in-memory vault writing to the supplied ledger.
func New(ledger audit.Ledger, options ...Option) vault.Service {
	ret := &service{
		shards: store.NewMemoryStore[string, vault.MemoryShard](shardKey),
		ledger: ledger,
		vocab:  resonance.NewVocabulary(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Store(ctx context.Context, id string, payload map[string]interface{}, tag resonance.Tag) (*vault.MemoryShard, error) {
	if id == "" {
		return nil, vault.ErrEmptyID
	}
	if err := tag.Validate(s.vocab); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := clock.Now()
	action := audit.ActionStore
	shard := &vault.MemoryShard{
		ID:        id,
		CreatedAt: now,
	}
	if existing, _ := s.shards.Load(ctx, id); existing != nil {
		action = audit.ActionModify
		shard.CreatedAt = existing.CreatedAt
	}
	shard.Payload = copyPayload(payload)
	shard.Resonance = tag
	shard.LastModified = now
	shard.Signature = vault.Signature(shard.Payload, tag)

	if err := s.shards.Save(ctx, shard); err != nil {
		return nil, err
	}
	if err := s.ledger.Append(ctx, &audit.Entry{
		Action:    action,
		SubjectID: id,
		Detail: map[string]interface{}{
			"tone":         string(tag.Tone),
			"symbol":       tag.Symbol,
			"moral_charge": tag.MoralCharge,
			"intensity":    tag.Intensity,
			"signature":    shard.Signature,
		},
	}); err != nil {
		return nil, err
	}
	return shard.Clone(), nil
}

func (s *service) Get(ctx context.Context, id string) (*vault.MemoryShard, error) {
	if id == "" {
		return nil, vault.ErrEmptyID
	}
	shard, err := s.shards.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return shard.Clone(), nil
}

func (s *service) Query(ctx context.Context, criteria vault.Criteria) ([]*vault.MemoryShard, error) {
	all, err := s.shards.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*vault.MemoryShard, 0, len(all))
	for _, shard := range all {
		if criteria.Matches(shard.Resonance) {
			matched = append(matched, shard.Clone())
		}
	}
	return matched, nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, vault.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shard, err := s.shards.Load(ctx, id)
	if err != nil {
		return false, err
	}
	if shard == nil {
		return false, nil
	}
	if err := s.shards.Delete(ctx, id); err != nil {
		return false, err
	}
	if err := s.ledger.Append(ctx, &audit.Entry{
		Action:    audit.ActionDelete,
		SubjectID: id,
		Detail: map[string]interface{}{
			"signature": shard.Signature,
		},
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) AuditLog(ctx context.Context) ([]*audit.Entry, error) {
	return s.ledger.All(ctx)
}

func copyPayload(payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}

var _ vault.Service = (*service)(nil)
