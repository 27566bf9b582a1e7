// Package checksum fingerprints note content. A fingerprint doubles as the
// note's HTTP entity tag.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag formats a checksum as a strong entity tag.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// FromIfMatch extracts the checksum from an If-Match header value. Quotes
// and a weak prefix are dropped. An empty header or "*" yields "", which
// matches any version.
func FromIfMatch(header string) string {
	tag := strings.TrimSpace(header)
	if tag == "*" {
		return ""
	}
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}
