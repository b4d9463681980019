// Package identity computes the two hashes every duplicate check keys on:
// the identity hash over normalized (artist, title) metadata and the content
// hash over a bounded prefix sample of file bytes.
//
// Both functions are pure and deterministic; the same inputs always produce
// the same hashes across runs and platforms.
package identity
