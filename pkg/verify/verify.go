// Package verify round-trips a payload through the base62 codec and checks
// that the decoded bytes are identical to the original before the encoded
// string is trusted. Equality is established by comparing SHA-256 digests,
// which also gives a short fingerprint to put in diagnostics.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/credpaste/credpaste/pkg/base62"
)

// previewLen bounds how much of each payload a diagnostic shows.
const previewLen = 200

// Result describes one verification run. A failed run is a warning, not an
// error: the caller decides whether to proceed with the encoded string.
type Result struct {
	OK bool

	// Encoded is the encoded form of the original payload, valid whether
	// or not verification passed.
	Encoded string

	OriginalLen    int
	DecodedLen     int
	OriginalDigest string
	DecodedDigest  string

	// DecodeErr is set when decoding failed outright; DecodedLen and
	// DecodedDigest are zero in that case.
	DecodeErr error

	originalPreview []byte
	decodedPreview  []byte
}

// Run encodes original, decodes the result, and digest-compares both sides.
func Run(c *base62.Codec, original []byte) Result {
	encoded := c.Encode(original)
	decoded, err := c.Decode(encoded)
	r := Compare(original, decoded, err)
	r.Encoded = encoded
	return r
}

// Compare builds a Result from an original payload and the outcome of
// decoding its encoded form. Split out from Run so corruption scenarios can
// be exercised directly.
func Compare(original, decoded []byte, decodeErr error) Result {
	r := Result{
		OriginalLen:     len(original),
		OriginalDigest:  digest(original),
		DecodeErr:       decodeErr,
		originalPreview: preview(original),
	}
	if decodeErr != nil {
		return r
	}
	r.DecodedLen = len(decoded)
	r.DecodedDigest = digest(decoded)
	r.decodedPreview = preview(decoded)
	r.OK = r.OriginalDigest == r.DecodedDigest
	return r
}

// Report writes a human-readable diagnostic for a failed run. It prints
// nothing for a successful one; success reporting is the caller's business.
func (r Result) Report(w io.Writer) {
	if r.OK {
		return
	}
	fmt.Fprintln(w, "WARNING: round-trip verification failed")
	fmt.Fprintf(w, "  original: %d bytes, sha256 %s\n", r.OriginalLen, shortDigest(r.OriginalDigest))
	if r.DecodeErr != nil {
		fmt.Fprintf(w, "  decoded:  decode failed: %v\n", r.DecodeErr)
	} else {
		fmt.Fprintf(w, "  decoded:  %d bytes, sha256 %s\n", r.DecodedLen, shortDigest(r.DecodedDigest))
	}
	fmt.Fprintf(w, "  original preview: %q\n", r.originalPreview)
	if r.DecodeErr == nil {
		fmt.Fprintf(w, "  decoded preview:  %q\n", r.decodedPreview)
	}
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func preview(data []byte) []byte {
	if len(data) > previewLen {
		return data[:previewLen]
	}
	return data
}
