package mnemos

import (
	"context"
	"fmt"
	"time"

	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/audit"
	afs "github.com/mnemos-ai/mnemos/service/audit/fs"
	amemory "github.com/mnemos-ai/mnemos/service/audit/memory"
	"github.com/mnemos-ai/mnemos/service/consent"
	cmemory "github.com/mnemos-ai/mnemos/service/consent/memory"
	"github.com/mnemos-ai/mnemos/service/drift"
	"github.com/mnemos-ai/mnemos/service/generate"
	ganthropic "github.com/mnemos-ai/mnemos/service/generate/anthropic"
	gopenai "github.com/mnemos-ai/mnemos/service/generate/openai"
	"github.com/mnemos-ai/mnemos/service/vault"
	vmemory "github.com/mnemos-ai/mnemos/service/vault/memory"
	"github.com/mnemos-ai/mnemos/tracing"
)

type registeredDecider struct {
	mode    policy.Mode
	decider policy.Decider
}

// Service is the embedding façade over the consent pipeline: the resonance
// vault, the drift estimator, the consent gate and the shared audit ledger.
// Transport layers (REST, CLI) are thin mappings onto its methods.
type Service struct {
	config    *Config
	ledger    audit.Ledger
	vault     vault.Service
	gate      consent.Service
	estimator *drift.Estimator
	generator generate.Service
	deciders  []registeredDecider
	runtime   *Runtime
}

// New assembles a Service. Components not supplied via options are built
// from the configuration.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	if s.ledger == nil {
		if basePath := s.config.Audit.BasePath; basePath != "" {
			ledger, err := afs.New(basePath)
			if err != nil {
				return err
			}
			s.ledger = ledger
		} else {
			s.ledger = amemory.New()
		}
	}

	if s.vault == nil {
		extra := make([]resonance.Tone, 0, len(s.config.Vault.ExtraTones))
		for _, tone := range s.config.Vault.ExtraTones {
			extra = append(extra, resonance.Tone(tone))
		}
		s.vault = vmemory.New(s.ledger, vmemory.WithExtraTones(extra...))
	}

	if s.gate == nil {
		mode := policy.ModeManual
		if s.config.Consent.Mode != "" {
			mode, _ = policy.Parse(s.config.Consent.Mode)
		}
		s.gate = cmemory.New(s.ledger,
			cmemory.WithMode(mode),
			cmemory.WithDefaultTimeout(s.config.Consent.Timeout()))
	}
	for _, d := range s.deciders {
		if err := s.gate.RegisterDecider(d.mode, d.decider); err != nil {
			return err
		}
	}

	s.estimator = drift.New(s.vault, s.config.Drift)

	if s.generator == nil {
		var err error
		if s.generator, err = newGenerator(s.config.Generator); err != nil {
			return err
		}
	}

	if s.config.Tracing.Enabled {
		if err := tracing.Init("mnemos", "1.0.0", s.config.Tracing.OutputFile); err != nil {
			return err
		}
	}

	s.runtime = &Runtime{service: s}
	return nil
}

func newGenerator(config GeneratorConfig) (generate.Service, error) {
	switch config.Provider {
	case "openai":
		return gopenai.New(gopenai.Config{APIKey: config.APIKey, Model: config.Model})
	case "anthropic":
		return ganthropic.New(ganthropic.Config{APIKey: config.APIKey, Model: config.Model, MaxTokens: config.MaxTokens})
	case "":
		// No provider configured – the runtime refuses to propose, every
		// other operation works.
		return nil, nil
	}
	return nil, fmt.Errorf("generator.provider %q is not supported", config.Provider)
}

// Runtime returns the orchestration façade.
func (s *Service) Runtime() *Runtime { return s.runtime }

// Gate exposes the consent gate, for decision sources that need the queue.
func (s *Service) Gate() consent.Service { return s.gate }

// Vault exposes the memory store.
func (s *Service) Vault() vault.Service { return s.vault }

// StoreMemory creates or overwrites a shard.
func (s *Service) StoreMemory(ctx context.Context, id string, payload map[string]interface{}, tag resonance.Tag) (*vault.MemoryShard, error) {
	return s.vault.Store(ctx, id, payload, tag)
}

// QueryMemory returns the shards matching the criteria.
func (s *Service) QueryMemory(ctx context.Context, criteria vault.Criteria) ([]*vault.MemoryShard, error) {
	return s.vault.Query(ctx, criteria)
}

// DeleteMemory removes a shard and reports whether anything was removed.
func (s *Service) DeleteMemory(ctx context.Context, id string) (bool, error) {
	return s.vault.Delete(ctx, id)
}

// AuditLog returns ledger entries, optionally narrowed by a query.
func (s *Service) AuditLog(ctx context.Context, query *audit.Query) ([]*audit.Entry, error) {
	if query == nil {
		return s.ledger.All(ctx)
	}
	return s.ledger.Filter(ctx, *query)
}

// ListPendingConsent returns the rounds awaiting a verdict.
func (s *Service) ListPendingConsent(ctx context.Context) ([]*consent.Pending, error) {
	return s.gate.ListPending(ctx)
}

// ApproveConsent resolves the pending round for memoryID with approval.
func (s *Service) ApproveConsent(ctx context.Context, memoryID string) (*consent.Resolution, error) {
	return s.gate.Approve(ctx, memoryID)
}

// DenyConsent resolves the pending round for memoryID with denial.
func (s *Service) DenyConsent(ctx context.Context, memoryID string) (*consent.Resolution, error) {
	return s.gate.Deny(ctx, memoryID)
}

// ConsentMode returns the gate's current operating mode.
func (s *Service) ConsentMode() policy.Mode { return s.gate.Mode() }

// SetConsentMode switches the gate mode for rounds created afterwards.
func (s *Service) SetConsentMode(raw string) (policy.Mode, error) {
	mode, err := policy.Parse(raw)
	if err != nil {
		return "", err
	}
	if err := s.gate.SetMode(mode); err != nil {
		return "", err
	}
	return mode, nil
}

// AwaitDecision opens a consent round and blocks until a verdict exists.
func (s *Service) AwaitDecision(ctx context.Context, memoryID string, advisory *drift.Advisory, timeout time.Duration) (consent.Verdict, error) {
	return s.gate.AwaitDecision(ctx, memoryID, advisory, timeout)
}

// EstimateDrift computes the advisory signals for a proposed shard.
func (s *Service) EstimateDrift(ctx context.Context, payload map[string]interface{}, tag resonance.Tag) (*drift.Advisory, error) {
	return s.estimator.Estimate(ctx, payload, tag)
}
