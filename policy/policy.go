package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mnemos-ai/mnemos/service/drift"
)

// Mode controls how the consent gate resolves decision requests.
type Mode string

// Modes recognised by the gate.
const (
	ModeAlwaysYes Mode = "always_yes" // approve immediately – scripted testing
	ModeAlwaysNo  Mode = "always_no"  // deny immediately – scripted testing
	ModeRandom    Mode = "random"     // pseudo-random verdict – fuzz testing
	ModeManual    Mode = "manual"     // wait for an explicit approve/deny call
	ModeVoice     Mode = "voice"      // delegate to a registered voice decider
	ModeCustom    Mode = "custom"     // delegate to a registered custom decider
)

// ErrInvalidMode indicates a mode outside the recognised set.
var ErrInvalidMode = errors.New("policy: invalid consent mode")

// Modes lists the recognised set in a stable order.
func Modes() []Mode {
	return []Mode{ModeAlwaysYes, ModeAlwaysNo, ModeRandom, ModeManual, ModeVoice, ModeCustom}
}

// Parse validates a mode string (case-insensitive).
func Parse(raw string) (Mode, error) {
	candidate := Mode(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range Modes() {
		if candidate == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// Auto reports whether the mode resolves synchronously with no suspension.
func (m Mode) Auto() bool {
	return m == ModeAlwaysYes || m == ModeAlwaysNo || m == ModeRandom
}

// NeedsDecider reports whether the mode routes through a registered Decider.
func (m Mode) NeedsDecider() bool {
	return m == ModeVoice || m == ModeCustom
}

// Decider resolves a pending consent request on behalf of an external
// decision source (a voice bridge, a custom policy, a test harness). The
// gate does not know how the implementation obtains its answer; it only
// consumes the boolean. Returning an error counts as a denial – absence of
// a clean approval is never treated as consent.
type Decider func(ctx context.Context, memoryID string, advisory *drift.Advisory) (bool, error)
