// Package history persists the filename-keyed log of previously reviewed
// files, independent of library membership.
//
// Keying on the bare filename rather than the full path means a track
// re-delivered under a different folder is still recognized as already
// reviewed. Add reports novelty through its boolean return; duplicate
// filenames are never an error.
package history
