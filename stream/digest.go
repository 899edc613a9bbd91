package stream

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"

	"github.com/Neumenon/limpet/limpet"
)

// Digest is a 32-byte BLAKE3 digest.
//
// Two values carry the same digest exactly when their serialized texts
// match byte for byte. The writer emits a single canonical form (fixed
// escaping, nine-digit numbers, no whitespace), so digests are stable
// across write/read cycles of the same value.
type Digest [32]byte

// HashValue computes the digest of the value on top of c's stack by
// streaming its serialized form through the hasher. The value stays on
// the stack and no text is buffered.
func HashValue(c *limpet.Context) (Digest, error) {
	hasher := blake3.New()
	err := c.Write(func(p []byte) int {
		hasher.Write(p)
		return len(p)
	})
	var d Digest
	if err != nil {
		return d, err
	}
	copy(d[:], hasher.Sum(nil))
	return d, nil
}

// Sum computes the digest of raw bytes. Sum(text) matches HashValue
// only when text is already in canonical form.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// HashingInput returns an input adapter that feeds every byte drawn
// from r into the returned hasher as a side effect. The digest covers
// all consumed bytes, including any the reader pulled past the end of
// the value.
func HashingInput(r io.Reader) (limpet.InputFunc, *blake3.Hasher) {
	hasher := blake3.New()
	return Input(io.TeeReader(r, hasher)), hasher
}

// FormatDigest renders d as lowercase hex.
func FormatDigest(d Digest) string {
	return hex.EncodeToString(d[:])
}

// ParseDigest converts a 64-character hex string back to a Digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != 64 {
		return d, fmt.Errorf("digest must be 64 hex characters, got %d", len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("invalid digest: %w", err)
	}
	return d, nil
}
