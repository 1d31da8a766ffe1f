// Package lz5 implements an LZ5-style variant of LZ77 with a bounded offset
// and a minimum match length.
package lz5

import "github.com/lzforge/compra"

const (
	// DefaultMaxOffset is used when Compress is given a maxOffset of 0.
	DefaultMaxOffset = 32 * 1024

	// MinMatch is the shortest match that is encoded as a copy.
	MinMatch = 3
)

// Window returns the search window for the given maximum offset. Match
// lengths are capped at the same value.
func Window(maxOffset int) compra.Window {
	if maxOffset <= 0 {
		maxOffset = DefaultMaxOffset
	}
	return compra.Window{Size: maxOffset, MaxLength: maxOffset}
}

// FindLongestMatch returns the longest match for src[pos:] within
// maxOffset bytes before pos, and its offset.
func FindLongestMatch(src []byte, pos, maxOffset int) (length, offset int) {
	return Window(maxOffset).LongestMatch(src, pos)
}

// Compress returns the tokens for src.
func Compress(src []byte, maxOffset int) []compra.Token {
	return compra.TripleParse(nil, Window(maxOffset), src, MinMatch)
}

// Decompress rebuilds the data described by tokens. Copies with an offset
// or a length above maxOffset are rejected, since Compress never makes them.
func Decompress(tokens []compra.Token, maxOffset int) ([]byte, error) {
	if maxOffset <= 0 {
		maxOffset = DefaultMaxOffset
	}
	for i, t := range tokens {
		if t.Length > 0 && (t.Offset > maxOffset || t.Length > maxOffset) {
			return nil, &compra.DecodeError{Codec: "lz5", Pos: i, Err: compra.ErrInvalidBackReference}
		}
	}
	return compra.DecodeTokens(nil, tokens, "lz5")
}

// FormatTokens returns the text form of tokens.
func FormatTokens(tokens []compra.Token) (string, error) {
	return compra.FormatTokens(tokens)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]compra.Token, error) {
	return compra.ParseTokens([]byte(text))
}
