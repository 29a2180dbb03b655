package mnemos

import (
	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/audit"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/generate"
	"github.com/mnemos-ai/mnemos/service/vault"
)

// Option customises the Service during construction.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLedger sets the audit ledger shared by the vault and the gate.
func WithLedger(ledger audit.Ledger) Option {
	return func(s *Service) { s.ledger = ledger }
}

// WithVault sets the memory store.
func WithVault(svc vault.Service) Option {
	return func(s *Service) { s.vault = svc }
}

// WithGate sets the consent gate.
func WithGate(gate consent.Service) Option {
	return func(s *Service) { s.gate = gate }
}

// WithGenerator sets the content generator called by the runtime.
func WithGenerator(generator generate.Service) Option {
	return func(s *Service) { s.generator = generator }
}

// WithDecider registers a decision callback for voice or custom mode once
// the gate is constructed.
func WithDecider(mode policy.Mode, decider policy.Decider) Option {
	return func(s *Service) {
		s.deciders = append(s.deciders, registeredDecider{mode: mode, decider: decider})
	}
}
