package mnemos

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/audit"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/drift"
	"github.com/mnemos-ai/mnemos/service/generate"
	"github.com/mnemos-ai/mnemos/service/vault"
)

func newTestService(t *testing.T, options ...Option) *Service {
	t.Helper()
	srv, err := New(options...)
	require.NoError(t, err)
	return srv
}

func wonderTag(moral, intensity float64) resonance.Tag {
	return resonance.Tag{Tone: resonance.ToneWonder, Symbol: "threshold", MoralCharge: moral, Intensity: intensity}
}

func TestManualApprovalCycle(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	shard, err := srv.StoreMemory(ctx, "temp_llm_output", map[string]interface{}{"text": "candidate"}, wonderTag(0.4, 0.7))
	require.NoError(t, err)
	assert.NotEmpty(t, shard.Signature)

	advisory, err := srv.EstimateDrift(ctx, shard.Payload, shard.Resonance)
	require.NoError(t, err)

	go func() {
		for {
			pending, _ := srv.ListPendingConsent(ctx)
			if len(pending) == 1 {
				_, _ = srv.ApproveConsent(ctx, "temp_llm_output")
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	verdict, err := srv.AwaitDecision(ctx, "temp_llm_output", advisory, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictApproved, verdict)

	entries, err := srv.AuditLog(ctx, &audit.Query{Action: audit.ActionConsentDecision})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "approved", entries[0].Detail["verdict"])
}

func TestTimeoutDeniesAndAudits(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	verdict, err := srv.AwaitDecision(ctx, "m1", nil, 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictDenied, verdict)

	entries, err := srv.AuditLog(ctx, &audit.Query{Action: audit.ActionConsentDecision})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].Detail["timed_out"])
}

func TestScriptedModes(t *testing.T) {
	srv := newTestService(t, WithConfig(&Config{
		Consent: ConsentConfig{Mode: "always_yes", TimeoutSeconds: 30},
		Drift:   drift.DefaultConfig(),
	}))
	ctx := context.Background()

	verdict, err := srv.AwaitDecision(ctx, "m1", nil, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictApproved, verdict)

	mode, err := srv.SetConsentMode("always_no")
	require.NoError(t, err)
	assert.Equal(t, policy.ModeAlwaysNo, mode)

	verdict, err = srv.AwaitDecision(ctx, "m2", nil, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictDenied, verdict)

	_, err = srv.SetConsentMode("sometimes")
	assert.ErrorIs(t, err, policy.ErrInvalidMode)
}

func TestQueryAndDelete(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	_, err := srv.StoreMemory(ctx, "m1", map[string]interface{}{"n": 1}, wonderTag(0.2, 0.9))
	require.NoError(t, err)
	_, err = srv.StoreMemory(ctx, "m2", map[string]interface{}{"n": 2}, resonance.Tag{
		Tone: resonance.ToneGrief, Symbol: "ashes", MoralCharge: -0.5, Intensity: 0.4,
	})
	require.NoError(t, err)

	shards, err := srv.QueryMemory(ctx, vault.Criteria{Tone: resonance.ToneWonder})
	require.NoError(t, err)
	require.Len(t, shards, 1)
	assert.Equal(t, "m1", shards[0].ID)

	removed, err := srv.DeleteMemory(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = srv.DeleteMemory(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCustomDeciderViaOption(t *testing.T) {
	srv := newTestService(t,
		WithConfig(&Config{
			Consent: ConsentConfig{Mode: "custom", TimeoutSeconds: 30},
			Drift:   drift.DefaultConfig(),
		}),
		WithDecider(policy.ModeCustom, func(ctx context.Context, memoryID string, advisory *drift.Advisory) (bool, error) {
			return advisory != nil && advisory.Drift < 0.5, nil
		}))
	ctx := context.Background()

	verdict, err := srv.AwaitDecision(ctx, "m1", &drift.Advisory{Drift: 0.1}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictApproved, verdict)

	verdict, err = srv.AwaitDecision(ctx, "m2", &drift.Advisory{Drift: 0.9}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, consent.VerdictDenied, verdict)
}

func TestRuntimeProposeWithStaticGenerator(t *testing.T) {
	srv := newTestService(t,
		WithConfig(&Config{
			Consent: ConsentConfig{Mode: "always_yes", TimeoutSeconds: 30},
			Drift:   drift.DefaultConfig(),
		}),
		WithGenerator(generate.Static("a door that was always open")))
	ctx := context.Background()

	proposal, err := srv.Runtime().Propose(ctx, "m1", "describe the threshold", wonderTag(0.3, 0.6))
	require.NoError(t, err)
	assert.True(t, proposal.Released)
	assert.Equal(t, consent.VerdictApproved, proposal.Verdict)
	assert.Equal(t, "a door that was always open", proposal.Text)
	require.NotNil(t, proposal.Shard)
	assert.Equal(t, "a door that was always open", proposal.Shard.Payload["text"])
	require.NotNil(t, proposal.Advisory)
	assert.Equal(t, "none", proposal.Advisory.Basis)
}

func TestRuntimeProposeWithoutGenerator(t *testing.T) {
	srv := newTestService(t)
	_, err := srv.Runtime().Propose(context.Background(), "m1", "input", wonderTag(0, 0.5))
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
consent:
  mode: always_no
  timeoutSeconds: 5
drift:
  blend: 0.5
vault:
  extraTones: [longing]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "always_no", config.Consent.Mode)
	assert.Equal(t, 5*time.Second, config.Consent.Timeout())
	assert.Equal(t, 0.5, config.Drift.Blend)

	srv := newTestService(t, WithConfig(config))
	ctx := context.Background()
	_, err = srv.StoreMemory(ctx, "m1", map[string]interface{}{"n": 1}, resonance.Tag{
		Tone: resonance.Tone("longing"), Symbol: "sea", MoralCharge: 0, Intensity: 0.5,
	})
	require.NoError(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("consent:\n  mode: maybe\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, policy.ErrInvalidMode)
}

func TestValidationFailureLeavesNoAuditTrail(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	_, err := srv.StoreMemory(ctx, "m1", nil, resonance.Tag{Tone: "sarcasm", Symbol: "x", Intensity: 0.5})
	assert.ErrorIs(t, err, resonance.ErrUnknownTone)

	entries, err := srv.AuditLog(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
