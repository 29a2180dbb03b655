// Package resonance defines the subjective metadata attached to every memory
// shard: a tone drawn from a closed vocabulary, a symbolic grouping label and
// two bounded scalars (moral charge and intensity). Validation is strict –
// out-of-range values are rejected, never silently clamped, so that stored
// tags always satisfy the documented bounds.
package resonance

import (
	"errors"
	"fmt"
)

// Tone is one entry of the closed tone vocabulary.
type Tone string

const (
	ToneJoy      Tone = "joy"
	ToneGrief    Tone = "grief"
	ToneFracture Tone = "fracture"
	ToneWonder   Tone = "wonder"
	ToneNeutral  Tone = "neutral"
)

var (
	// ErrUnknownTone indicates a tone outside the vocabulary.
	ErrUnknownTone = errors.New("resonance: unknown tone")

	// ErrOutOfRange indicates a moral charge or intensity outside its bounds.
	ErrOutOfRange = errors.New("resonance: value out of range")
)

// Tag carries the subjective perception attached to a shard. Symbol may be
// empty: a shard without one simply opts out of associative grouping.
type Tag struct {
	Tone        Tone    `json:"tone" yaml:"tone"`
	Symbol      string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	MoralCharge float64 `json:"moralCharge" yaml:"moralCharge"` // -1.0 .. 1.0
	Intensity   float64 `json:"intensity" yaml:"intensity"`     // 0.0 .. 1.0
}

// Vocabulary is the closed set of tones accepted by a store instance. The
// base vocabulary can be extended at construction time but never at runtime,
// so grouping by tone stays well defined for the lifetime of a store.
type Vocabulary map[Tone]bool

// NewVocabulary returns the base vocabulary extended with extra tones.
func NewVocabulary(extra ...Tone) Vocabulary {
	v := Vocabulary{
		ToneJoy:      true,
		ToneGrief:    true,
		ToneFracture: true,
		ToneWonder:   true,
		ToneNeutral:  true,
	}
	for _, t := range extra {
		if t != "" {
			v[t] = true
		}
	}
	return v
}

// Contains reports whether tone belongs to the vocabulary.
func (v Vocabulary) Contains(tone Tone) bool { return v[tone] }

// Validate checks the tag against the vocabulary and the documented bounds.
func (t *Tag) Validate(v Vocabulary) error {
	if t == nil {
		return fmt.Errorf("%w: nil tag", ErrOutOfRange)
	}
	if !v.Contains(t.Tone) {
		return fmt.Errorf("%w: %q", ErrUnknownTone, t.Tone)
	}
	if t.MoralCharge < -1.0 || t.MoralCharge > 1.0 {
		return fmt.Errorf("%w: moralCharge %v not in [-1,1]", ErrOutOfRange, t.MoralCharge)
	}
	if t.Intensity < 0.0 || t.Intensity > 1.0 {
		return fmt.Errorf("%w: intensity %v not in [0,1]", ErrOutOfRange, t.Intensity)
	}
	return nil
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
