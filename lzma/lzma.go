// Package lzma implements a simplified, dictionary-bounded relative of LZMA.
// There is no range coder: the output is the same back-reference plus literal
// tokens LZ77 uses, but both the search distance and the match length are
// limited by the dictionary size, and matches shorter than MinMatch are
// written as literals.
package lzma

import "github.com/lzforge/compra"

const (
	// DefaultDictionarySize is used when a size of 0 is given.
	DefaultDictionarySize = 4096

	// MinMatch is the shortest match that is encoded as a copy.
	MinMatch = 3
)

// Window returns the search window for a dictionary of the given size.
func Window(dictionarySize int) compra.Window {
	if dictionarySize <= 0 {
		dictionarySize = DefaultDictionarySize
	}
	return compra.Window{Size: dictionarySize, MaxLength: dictionarySize}
}

// FindLongestMatch returns the longest match for src[pos:] in the
// dictionary, and its distance back from pos.
func FindLongestMatch(src []byte, pos, dictionarySize int) (length, distance int) {
	return Window(dictionarySize).LongestMatch(src, pos)
}

// Compress returns the tokens for src.
func Compress(src []byte, dictionarySize int) []compra.Token {
	return compra.TripleParse(nil, Window(dictionarySize), src, MinMatch)
}

// Decompress rebuilds the data described by tokens. A copy that reaches
// farther back than dictionarySize or is longer than it is rejected, as is
// one that reaches before the start of the output.
func Decompress(tokens []compra.Token, dictionarySize int) ([]byte, error) {
	if dictionarySize <= 0 {
		dictionarySize = DefaultDictionarySize
	}
	for i, t := range tokens {
		if t.Length > 0 && (t.Offset > dictionarySize || t.Length > dictionarySize) {
			return nil, &compra.DecodeError{Codec: "lzma", Pos: i, Err: compra.ErrInvalidBackReference}
		}
	}
	return compra.DecodeTokens(nil, tokens, "lzma")
}

// FormatTokens returns the text form of tokens.
func FormatTokens(tokens []compra.Token) (string, error) {
	return compra.FormatTokens(tokens)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]compra.Token, error) {
	return compra.ParseTokens([]byte(text))
}
