package memory

import (
	"time"

	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/messaging"
)

type Option func(*service)

// WithMode sets the initial operating mode.
func WithMode(mode policy.Mode) Option {
	return func(s *service) { s.mode = mode }
}

// WithDefaultTimeout sets the decision window applied when AwaitDecision is
// called without an explicit timeout.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(s *service) {
		if timeout > 0 {
			s.defaultTimeout = timeout
		}
	}
}

// WithQueue replaces the gate's event queue, for callers that want to share
// one fan-out across services.
func WithQueue(queue messaging.Queue[consent.Event]) Option {
	return func(s *service) {
		if queue != nil {
			s.events = queue
		}
	}
}

// WithDecider pre-registers a decision callback for voice or custom mode.
func WithDecider(mode policy.Mode, decider policy.Decider) Option {
	return func(s *service) {
		if mode.NeedsDecider() && decider != nil {
			s.deciders[mode] = decider
		}
	}
}
