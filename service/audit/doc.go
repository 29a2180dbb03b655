// Package audit defines the append-only ledger contract used to record every
// memory mutation and consent decision. Entries are totally ordered by a
// ledger-owned sequence counter, independent of wall-clock timestamps.
package audit
