// Package services defines shared error utilities consumed by the library
// stores, the duplicate engine, and the orchestration layers.
//
// Structured error markers plus the Wrap helper keep failure classification
// uniform: validation problems are detected before any I/O, not-found is
// distinguished from a normal zero-confidence verdict, and storage failures
// surface verbatim without internal retries.
package services
