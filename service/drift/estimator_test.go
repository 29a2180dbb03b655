package drift

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos/model/resonance"
	amemory "github.com/mnemos-ai/mnemos/service/audit/memory"
	"github.com/mnemos-ai/mnemos/service/vault"
	vmemory "github.com/mnemos-ai/mnemos/service/vault/memory"
)

func newEstimator(t *testing.T) (*Estimator, vault.Service) {
	store := vmemory.New(amemory.New())
	return New(store, DefaultConfig()), store
}

func TestNoHistoryMeansZeroDrift(t *testing.T) {
	ctx := context.Background()
	estimator, _ := newEstimator(t)

	advisory, err := estimator.Estimate(ctx, nil, resonance.Tag{
		Tone: resonance.ToneJoy, Symbol: "spiral", MoralCharge: 0.8, Intensity: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, advisory.Drift)
	assert.Equal(t, 0.8, advisory.AdjustedMoralCharge)
	assert.Equal(t, 0, advisory.Samples)
	assert.Equal(t, "none", advisory.Basis)
}

func TestDriftAgainstSymbolHistory(t *testing.T) {
	ctx := context.Background()
	estimator, store := newEstimator(t)

	payload := map[string]interface{}{"text": "same"}
	_, err := store.Store(ctx, "h1", payload, resonance.Tag{
		Tone: resonance.ToneNeutral, Symbol: "spiral", MoralCharge: 0.0, Intensity: 0.5,
	})
	require.NoError(t, err)

	// Identical payload halves the raw deviation: (0.8-0.0)*0.5 = 0.4.
	advisory, err := estimator.Estimate(ctx, payload, resonance.Tag{
		Tone: resonance.ToneJoy, Symbol: "spiral", MoralCharge: 0.8, Intensity: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "symbol", advisory.Basis)
	assert.Equal(t, 1, advisory.Samples)
	assert.InDelta(t, 0.4, advisory.Drift, 1e-9)
	// adjusted = 0.7*0.8 + 0.3*0.0
	assert.InDelta(t, 0.56, advisory.AdjustedMoralCharge, 1e-9)
}

func TestToneFallback(t *testing.T) {
	ctx := context.Background()
	estimator, store := newEstimator(t)

	_, err := store.Store(ctx, "h1", nil, resonance.Tag{
		Tone: resonance.ToneGrief, Symbol: "river", MoralCharge: -0.5, Intensity: 0.5,
	})
	require.NoError(t, err)

	advisory, err := estimator.Estimate(ctx, nil, resonance.Tag{
		Tone: resonance.ToneGrief, Symbol: "unseen-symbol", MoralCharge: -0.5, Intensity: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "tone", advisory.Basis)
	assert.Equal(t, 1, advisory.Samples)
	assert.InDelta(t, 0.0, advisory.Drift, 1e-9)
}

func TestEmptySymbolGroupsByTone(t *testing.T) {
	ctx := context.Background()
	estimator, store := newEstimator(t)

	_, err := store.Store(ctx, "h1", nil, resonance.Tag{
		Tone: resonance.ToneJoy, MoralCharge: 0.2, Intensity: 0.9,
	})
	require.NoError(t, err)

	// A symbol-less tag skips the symbol lookup entirely.
	advisory, err := estimator.Estimate(ctx, nil, resonance.Tag{
		Tone: resonance.ToneJoy, MoralCharge: 0.2, Intensity: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "tone", advisory.Basis)
	assert.Equal(t, 1, advisory.Samples)
	assert.InDelta(t, 0.0, advisory.Drift, 1e-9)
}

func TestOutputsStayBounded(t *testing.T) {
	ctx := context.Background()
	store := vmemory.New(amemory.New())
	// Blend 0 trusts history entirely.
	estimator := New(store, Config{Blend: 0.0})

	_, err := store.Store(ctx, "h1", map[string]interface{}{"a": 1.0}, resonance.Tag{
		Tone: resonance.ToneGrief, Symbol: "s", MoralCharge: -1.0, Intensity: 1.0,
	})
	require.NoError(t, err)

	advisory, err := estimator.Estimate(ctx, map[string]interface{}{"b": 2.0}, resonance.Tag{
		Tone: resonance.ToneJoy, Symbol: "s", MoralCharge: 1.0, Intensity: 1.0,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, advisory.Drift, -1.0)
	assert.LessOrEqual(t, advisory.Drift, 1.0)
	assert.GreaterOrEqual(t, advisory.AdjustedMoralCharge, -1.0)
	assert.LessOrEqual(t, advisory.AdjustedMoralCharge, 1.0)
	assert.InDelta(t, -1.0, advisory.AdjustedMoralCharge, 1e-9)
}

func TestBlendIsBounded(t *testing.T) {
	estimator := New(vmemory.New(amemory.New()), Config{Blend: 7.0})
	assert.Equal(t, 1.0, estimator.blend)
}
