// Package policy defines the consent-mode vocabulary and the pluggable
// decider contract used by the gate for voice and custom modes. It is kept
// separate from the gate implementation so that decision sources can depend
// on the contract without pulling in gate internals.
package policy
