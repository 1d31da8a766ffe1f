// Package lzo implements an LZO-flavoured variant of LZ77: the same
// back-reference plus literal tokens, with a smaller window and matches
// that never overlap the bytes they produce.
package lzo

import "github.com/lzforge/compra"

// DefaultWindowSize is the window used when Compress is given a size of 0.
const DefaultWindowSize = 8 * 1024

// Window returns the search window LZO uses with the given size.
func Window(windowSize int) compra.Window {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return compra.Window{Size: windowSize, NoOverlap: true}
}

// FindLongestMatch returns the longest match for src[pos:] that ends
// before pos, and its offset.
func FindLongestMatch(src []byte, pos, windowSize int) (length, offset int) {
	return Window(windowSize).LongestMatch(src, pos)
}

// Compress returns the tokens for src.
func Compress(src []byte, windowSize int) []compra.Token {
	return compra.TripleParse(nil, Window(windowSize), src, 1)
}

// Decompress rebuilds the data described by tokens.
func Decompress(tokens []compra.Token) ([]byte, error) {
	return compra.DecodeTokens(nil, tokens, "lzo")
}

// FormatTokens returns the text form of tokens.
func FormatTokens(tokens []compra.Token) (string, error) {
	return compra.FormatTokens(tokens)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]compra.Token, error) {
	return compra.ParseTokens([]byte(text))
}
