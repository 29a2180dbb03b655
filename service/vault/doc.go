// Package vault defines the resonance-tagged memory store contract. Shards
// carry an open payload, a resonance tag and an integrity signature that is
// recomputed on every mutation.
package vault
