package mnemos

import (
	"context"
	"errors"
	"fmt"

	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/drift"
	"github.com/mnemos-ai/mnemos/service/vault"
	"github.com/mnemos-ai/mnemos/tracing"
)

// ErrNoGenerator indicates a Propose call on a service built without a
// content generator.
var ErrNoGenerator = errors.New("mnemos: no generator configured")

// Proposal is the outcome of one propose-gate-release cycle.
type Proposal struct {
	MemoryID string             `json:"memoryId"`
	Text     string             `json:"text"`
	Shard    *vault.MemoryShard `json:"shard,omitempty"`
	Advisory *drift.Advisory    `json:"advisory,omitempty"`
	Verdict  consent.Verdict    `json:"verdict"`
	Released bool               `json:"released"`
}

// Runtime orchestrates the pipeline: generate a candidate, compute the
// advisory, stash the shard, await the verdict, then release or block.
// Nothing is released without an explicit decision.
type Runtime struct {
	service *Service
}

// Propose runs one full cycle for memoryID. The advisory is computed before
// the candidate is stored so the comparison set never includes the candidate
// itself. The staged shard is kept even when the verdict is a denial – the
// ledger records the outcome and the caller decides what to do with the
// stash.
func (r *Runtime) Propose(ctx context.Context, memoryID, input string, tag resonance.Tag) (*Proposal, error) {
	if r.service.generator == nil {
		return nil, ErrNoGenerator
	}

	ctx, span := tracing.StartSpan(ctx, "runtime.propose", "INTERNAL")
	proposal, err := r.propose(ctx, memoryID, input, tag)
	tracing.EndSpan(span, err)
	return proposal, err
}

func (r *Runtime) propose(ctx context.Context, memoryID, input string, tag resonance.Tag) (*Proposal, error) {
	candidate, err := r.service.generator.Generate(ctx, input, map[string]interface{}{
		"memoryId": memoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	payload := map[string]interface{}{
		"text":  candidate.Text,
		"input": input,
	}
	for k, v := range candidate.Fields {
		payload[k] = v
	}

	advisory, err := r.service.estimator.Estimate(ctx, payload, tag)
	if err != nil {
		return nil, err
	}

	shard, err := r.service.vault.Store(ctx, memoryID, payload, tag)
	if err != nil {
		return nil, err
	}

	verdict, err := r.service.gate.AwaitDecision(ctx, memoryID, advisory, r.service.config.Consent.Timeout())
	if err != nil {
		return nil, err
	}

	return &Proposal{
		MemoryID: memoryID,
		Text:     candidate.Text,
		Shard:    shard,
		Advisory: advisory,
		Verdict:  verdict,
		Released: verdict == consent.VerdictApproved,
	}, nil
}
