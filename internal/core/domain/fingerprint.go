package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable hash over the declared document set.
// The hash covers filenames and their order, so renaming, adding, removing
// or reordering documents all produce a different fingerprint and force
// re-ingestion. Content changes inside an unchanged filename do not; the
// snapshot freshness window bounds how stale that can get.
func Fingerprint(documentSet []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(documentSet, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}
