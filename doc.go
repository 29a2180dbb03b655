// Package mnemos provides a consent-gated memory pipeline for machine
// generated content.
//
// Candidate output is stashed as a resonance-tagged shard, advisory drift
// signals are computed against comparable history, and nothing is released
// until an explicit decision resolves the pending consent round – absence
// of a timely decision is a denial. Every mutation and verdict lands in an
// append-only audit ledger.
//
// The pluggable service layers are:
//
//   - vault    – resonance-tagged memory shards with integrity signatures
//   - drift    – advisory drift / adjusted-moral-charge estimation
//   - consent  – the decision gate with manual, scripted and callback modes
//   - audit    – the shared append-only ledger (in-memory or afs-backed)
//
// End-users typically interact via the high-level Service façade exposed by
// the root package:
//
//	srv, _ := mnemos.New()
//	shard, _ := srv.StoreMemory(ctx, "m1", payload, tag)
//	advisory, _ := srv.EstimateDrift(ctx, shard.Payload, tag)
//	verdict, _ := srv.AwaitDecision(ctx, "m1", advisory, 30*time.Second)
//
// For more details see the individual sub-packages.
package mnemos
