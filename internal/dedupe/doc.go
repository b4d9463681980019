// Package dedupe decides whether a candidate file duplicates something
// already in the library.
//
// Three checks run in strict order with short-circuiting: exact identity
// hash, exact content hash, then fuzzy title similarity among records by the
// same normalized artist. Exact hits carry confidence 1.0; fuzzy hits carry
// the top similarity score, with an inclusive caller-supplied threshold
// deciding whether the verdict counts as a duplicate. Scores between the
// policy's fuzzy floor and the threshold surface as low-confidence verdicts
// the orchestrator routes to manual review.
//
// The batch variant bounds query count by hash batches plus distinct-artist
// cardinality rather than file count.
package dedupe
