package identity

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// keyDelimiter separates artist from title inside an identity key. The unit
// separator control character does not occur in tag text.
const keyDelimiter = "\x1f"

// sentinelPrefix namespaces identity keys built from filenames so untagged
// files never collide with tagged ones or with each other. The leading
// delimiter cannot occur in a tagged key, whose artist part is non-empty.
const sentinelPrefix = keyDelimiter + "file" + keyDelimiter

// ContentSampleBytes is the size of the file prefix hashed for content
// identity. Large enough to get past tag blocks, small enough to stay cheap
// for tens of thousands of files.
const ContentSampleBytes = 64 * 1024

// Key builds the normalized identity key for a track. Artist and title are
// lowercased and trimmed; when either is missing the raw filename is used
// under a sentinel namespace so two different untagged files keep distinct
// keys.
func Key(artist, title, filename string) string {
	a := strings.ToLower(strings.TrimSpace(artist))
	t := strings.ToLower(strings.TrimSpace(title))
	if a == "" || t == "" {
		return sentinelPrefix + filename
	}
	return a + keyDelimiter + t
}

// Hash returns the hex MD5 of the identity key. Equal hashes imply equal
// normalized (artist, title) pairs, not equal files.
func Hash(artist, title, filename string) string {
	sum := md5.Sum([]byte(Key(artist, title, filename)))
	return hex.EncodeToString(sum[:])
}

// ContentHash hashes the first ContentSampleBytes of the file at path. It is
// stable across metadata-only edits of later bytes but is not an acoustic
// fingerprint; re-encoded copies hash differently.
func ContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for content hash: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyN(h, f, ContentSampleBytes); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("sample %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
