// Package textutil provides text normalization and similarity scoring for
// duplicate detection.
//
// Titles are lowercased, trimmed, and stripped of release annotations such as
// "(Original Mix)" before comparison. Similarity uses Levenshtein-based
// scoring normalized to [0, 1].
package textutil
