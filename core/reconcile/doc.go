// Package reconcile implements a keyed record reconciliation engine for two
// independently sourced record streams.
//
// Given two paged sources of raw records, the engine normalizes each record
// into a (key, comparison value) pair, performs a hash outer join on the key,
// classifies every key in the union of both sides, and emits a structured
// report: match/mismatch tallies, ordered lists of keys missing from either
// side, per-key comparison details, and a log of records that were skipped
// rather than compared.
//
// # Architecture
//
// The engine consists of four cooperating pieces:
//
//  1. Normalizer: resolves key and value fields through a per-source alias
//     table, trims values, and rejects malformed records as skip-with-reason
//     rather than fatal errors.
//
//  2. Source scan: drains a paged Source through the normalizer. Each page
//     fetch runs under its own timeout and is retried a bounded number of
//     times with backoff; retry exhaustion or cancellation turns the run
//     partial instead of failing it.
//
//  3. Join: a hash outer join with side A as the build side. It runs in
//     O(|A|+|B|) time and memory, needs no sorted input, and makes one pass
//     over side B.
//
//  4. Report builder: accumulates classifications into the final Report,
//     optionally capping the number of detail records.
//
// # Determinism
//
// Both scans are buffered in full before joining and each scan's internal
// order is its page order, so reports are byte-identical across runs over
// unchanged sources regardless of how the two concurrent scans interleave.
//
// # Usage Example
//
//	engine, err := reconcile.New(aliasesA, aliasesB, reconcile.DefaultOptions(), log)
//	if err != nil {
//	    return err
//	}
//	report := engine.Run(ctx, sourceA, sourceB)
//	if report.Partial {
//	    // one of the scans ended early; counts cover what was read
//	}
package reconcile
