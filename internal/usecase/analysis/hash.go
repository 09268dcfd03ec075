package analysis

import (
	"crypto/sha256"
	"encoding/hex"
)

// TextHash returns the hex SHA-256 of text.
func TextHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// CacheKey identifies an analysis of text with opts. Options are part of the
// key since they change the shape of the result.
func CacheKey(text string, opts Options) string {
	return TextHash(text) + ":" + flag(opts.IncludeConfidence) + flag(opts.IncludeDetails)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
