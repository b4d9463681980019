// Package media defines the metadata-reader collaborator boundary.
//
// Tag parsing itself lives outside the core; the core only needs a Reader
// that yields optional artist/title/album fields and degrades to filename
// parsing when tags are missing or unreadable.
package media
