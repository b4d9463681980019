// Package process composes vetting with the review history: files the
// vetting report calls new are filtered against previously reviewed
// filenames, leaving a disjoint split of duplicates, already-reviewed files,
// and truly new material.
package process
