// Package fileutil provides filesystem helpers for folder scanning and
// export writing.
package fileutil
