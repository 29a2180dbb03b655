// Package drift computes advisory signals about a proposed memory shard:
// how far its moral charge deviates from comparable history and what a
// history-blended charge would look like. The output is attached to consent
// requests for a decision source to inspect; the gate itself never reads it
// to approve or deny.
package drift

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/service/vault"
)

// Advisory is the immutable estimator output snapshot.
type Advisory struct {
	Drift               float64 `json:"drift"`
	AdjustedMoralCharge float64 `json:"adjustedMoralCharge"`
	Samples             int     `json:"samples"`
	Basis               string  `json:"basis"` // symbol | tone | none
}

// Reader is the read-only slice of the vault the estimator needs.
type Reader interface {
	Query(ctx context.Context, criteria vault.Criteria) ([]*vault.MemoryShard, error)
}

// Config carries the estimator policy knobs.
type Config struct {
	// Blend weights the proposed moral charge against the comparison-set
	// mean when computing the adjusted charge:
	//
	//	adjusted = blend*proposed + (1-blend)*mean
	//
	// 1.0 trusts the proposal entirely, 0.0 trusts history entirely.
	Blend float64 `json:"blend" yaml:"blend"`
}

// DefaultConfig favours the proposed value but keeps a visible pull toward
// history.
func DefaultConfig() Config { return Config{Blend: 0.7} }

// Estimator computes advisories against a vault snapshot.
type Estimator struct {
	reader Reader
	blend  float64
}

// New creates an estimator. Blend values outside [0,1] are bounded.
func New(reader Reader, config Config) *Estimator {
	return &Estimator{
		reader: reader,
		blend:  resonance.Clamp(config.Blend, 0.0, 1.0),
	}
}

// Estimate compares the proposed tag against shards sharing its symbol or,
// when none exist, its tone. Both outputs always lie in [-1, 1].
func (e *Estimator) Estimate(ctx context.Context, payload map[string]interface{}, tag resonance.Tag) (*Advisory, error) {
	set, basis, err := e.comparisonSet(ctx, tag)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return &Advisory{
			Drift:               0.0,
			AdjustedMoralCharge: resonance.Clamp(tag.MoralCharge, -1.0, 1.0),
			Samples:             0,
			Basis:               "none",
		}, nil
	}

	var sum float64
	for _, shard := range set {
		sum += shard.Resonance.MoralCharge
	}
	mean := sum / float64(len(set))

	// Raw deviation is weighted by how novel the payload is relative to the
	// most recent comparison shard: an unchanged payload halves the drift
	// signal, an entirely new one passes it through.
	novelty := 1.0 - similarity(payload, set[len(set)-1].Payload)
	weight := 0.5 + 0.5*novelty

	return &Advisory{
		Drift:               resonance.Clamp((tag.MoralCharge-mean)*weight, -1.0, 1.0),
		AdjustedMoralCharge: resonance.Clamp(e.blend*tag.MoralCharge+(1.0-e.blend)*mean, -1.0, 1.0),
		Samples:             len(set),
		Basis:               basis,
	}, nil
}

func (e *Estimator) comparisonSet(ctx context.Context, tag resonance.Tag) ([]*vault.MemoryShard, string, error) {
	if tag.Symbol != "" {
		set, err := e.reader.Query(ctx, vault.Criteria{Symbol: tag.Symbol})
		if err != nil {
			return nil, "", err
		}
		if len(set) > 0 {
			return set, "symbol", nil
		}
	}
	set, err := e.reader.Query(ctx, vault.Criteria{Tone: tag.Tone})
	if err != nil {
		return nil, "", err
	}
	return set, "tone", nil
}

// similarity returns the difflib line ratio between two payloads rendered as
// canonical JSON, in [0, 1].
func similarity(a, b map[string]interface{}) float64 {
	aJSON, _ := json.MarshalIndent(a, "", " ")
	bJSON, _ := json.MarshalIndent(b, "", " ")
	matcher := difflib.NewMatcher(
		strings.Split(string(aJSON), "\n"),
		strings.Split(string(bJSON), "\n"),
	)
	return matcher.Ratio()
}
