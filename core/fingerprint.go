package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a fixed-length content digest used for exact-duplicate
// detection. Equal canonical text always yields an equal fingerprint; it is
// an equality test, not a similarity measure. The fingerprint doubles as the
// storage record identifier, which makes upserts idempotent.
type Fingerprint string

// fingerprintSize is the digest length in bytes (32 hex characters).
const fingerprintSize = 16

// FingerprintText computes the fingerprint of the exact bytes of text using
// BLAKE2b. Deterministic, pure, locale-independent.
func FingerprintText(text string) Fingerprint {
	h, _ := blake2b.New(fingerprintSize, nil)
	h.Write([]byte(text))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Valid reports whether f has the expected length and hex alphabet.
func (f Fingerprint) Valid() bool {
	if len(f) != fingerprintSize*2 {
		return false
	}
	_, err := hex.DecodeString(string(f))
	return err == nil
}

func (f Fingerprint) String() string {
	return string(f)
}
