// Package ledger records per-file completion of batch sampling runs.
//
// A Ledger lets an interrupted batch run resume without reprocessing:
// before a file is sampled the runner asks whether its completion is
// already recorded, and after a successful write it records the result.
// Entries are scoped by an arbitrary scope string (typically the output
// location), so the same input can be sampled into different outputs
// independently.
//
// The in-memory implementation backs tests and single-shot runs; the
// DynamoDB implementation persists across processes and hosts.
package ledger
