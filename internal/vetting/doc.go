// Package vetting scans import folders and classifies every audio file as
// duplicate, new, or uncertain relative to the library.
//
// Uncertain wins over duplicate and new during categorization: a fuzzy score
// below the duplicate threshold but above zero routes to manual review
// instead of being silently imported or discarded. Reports are immutable
// once built and may be persisted as run summaries for auditing.
package vetting
