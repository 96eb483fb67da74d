package selaras

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// checkSumVersion is bumped whenever the fingerprint serialization changes,
// so checksums from older releases never compare equal by accident.
const checkSumVersion = "1"

// computeCheckSum hashes the ordered change fingerprints of a changeset into
// a versioned hex digest.
func computeCheckSum(payloads []string) string {
	h := sha256.New()
	for _, payload := range payloads {
		io.WriteString(h, payload)
		io.WriteString(h, "\n")
	}
	return checkSumVersion + ":" + hex.EncodeToString(h.Sum(nil))
}
