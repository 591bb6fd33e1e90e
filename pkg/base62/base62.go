// Package base62 implements a fixed-width binary-to-text codec. Every input
// byte maps to exactly two output symbols, which makes the encoding
// self-delimiting: unlike big-integer base conversions, leading zero bytes
// survive a round trip and no external length metadata is needed. The output
// is roughly twice the input size; the point is pasteability into plain-text
// form fields, not compactness.
package base62

import (
	"fmt"
)

// Alphabet is the default output charset: digits, then lowercase, then
// uppercase, indexed 0..61. The ordering is part of the wire format; a
// string encoded with one ordering cannot be decoded with another.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = 62

// InvalidLengthError reports an encoded string whose length is odd. Every
// well-formed encoded string has exactly two symbols per byte.
type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("encoded length %d is odd, expected two symbols per byte", e.Length)
}

// InvalidCharacterError reports a symbol that cannot appear in a well-formed
// encoded string, along with its byte offset in the input.
type InvalidCharacterError struct {
	Char     byte
	Position int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at position %d", e.Char, e.Position)
}

// Codec encodes and decodes with a fixed 62-symbol alphabet. The zero value
// is not usable; construct with New or NewCodec. A Codec is immutable and
// safe for concurrent use.
type Codec struct {
	alphabet string
	// index maps a symbol back to its alphabet position, -1 for symbols
	// outside the alphabet.
	index [256]int16
}

// New returns a codec using the default Alphabet.
func New() *Codec {
	c, err := NewCodec(Alphabet)
	if err != nil {
		panic(err) // the default alphabet is always valid
	}
	return c
}

// NewCodec returns a codec using a custom alphabet. The alphabet must
// contain exactly 62 distinct single-byte symbols.
func NewCodec(alphabet string) (*Codec, error) {
	if len(alphabet) != base {
		return nil, fmt.Errorf("alphabet has %d symbols, need %d", len(alphabet), base)
	}
	c := &Codec{alphabet: alphabet}
	for i := range c.index {
		c.index[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		s := alphabet[i]
		if c.index[s] != -1 {
			return nil, fmt.Errorf("alphabet symbol %q appears more than once", s)
		}
		c.index[s] = int16(i)
	}
	return c, nil
}

// Encode renders data as printable text, two symbols per byte in input
// order. The result is always exactly twice as long as the input; empty
// input yields an empty string. Encode cannot fail: every byte value 0..255
// has a unique (high, low) symbol pair since 62*62 > 256.
func (c *Codec) Encode(data []byte) string {
	out := make([]byte, 2*len(data))
	for i, b := range data {
		out[2*i] = c.alphabet[b/base]
		out[2*i+1] = c.alphabet[b%base]
	}
	return string(out)
}

// Decode is the inverse of Encode. It fails atomically: on any error the
// returned slice is nil, never a partial result. Errors are
// *InvalidLengthError for odd-length input and *InvalidCharacterError for
// symbols outside the alphabet or a pair that no byte value encodes to.
func (c *Codec) Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &InvalidLengthError{Length: len(s)}
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi := c.index[s[i]]
		if hi < 0 {
			return nil, &InvalidCharacterError{Char: s[i], Position: i}
		}
		lo := c.index[s[i+1]]
		if lo < 0 {
			return nil, &InvalidCharacterError{Char: s[i+1], Position: i + 1}
		}
		v := int(hi)*base + int(lo)
		if v > 0xFF {
			// The high symbol indexes past 4, which Encode never emits.
			return nil, &InvalidCharacterError{Char: s[i], Position: i}
		}
		out[i/2] = byte(v)
	}
	return out, nil
}

// Alphabet returns the codec's alphabet in index order.
func (c *Codec) Alphabet() string {
	return c.alphabet
}
