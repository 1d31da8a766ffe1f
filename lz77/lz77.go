// Package lz77 implements the classic LZ77 coder, where every token is a
// back-reference followed by one literal byte.
package lz77

import "github.com/lzforge/compra"

// DefaultWindowSize is the window used when Compress is given a size of 0.
const DefaultWindowSize = 32 * 1024

// Window returns the search window LZ77 uses with the given size. Matches may
// overlap the bytes they produce, and have no length limit.
func Window(windowSize int) compra.Window {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return compra.Window{Size: windowSize}
}

// FindLongestMatch returns the longest match for src[pos:] within
// windowSize bytes before pos, and its offset.
func FindLongestMatch(src []byte, pos, windowSize int) (length, offset int) {
	return Window(windowSize).LongestMatch(src, pos)
}

// Compress returns the LZ77 tokens for src.
func Compress(src []byte, windowSize int) []compra.Token {
	return compra.TripleParse(nil, Window(windowSize), src, 1)
}

// Decompress rebuilds the data described by tokens.
func Decompress(tokens []compra.Token) ([]byte, error) {
	return compra.DecodeTokens(nil, tokens, "lz77")
}

// FormatTokens returns the text form of tokens, as used between the stages
// of a pipeline.
func FormatTokens(tokens []compra.Token) (string, error) {
	return compra.FormatTokens(tokens)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]compra.Token, error) {
	return compra.ParseTokens([]byte(text))
}

// A MatchFinder is an implementation of the compra.MatchFinder interface
// that produces LZ77 matches, for use with another codec's Encoder.
type MatchFinder struct {
	// WindowSize is how far back to look. The default is DefaultWindowSize.
	WindowSize int
}

func (MatchFinder) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (m MatchFinder) FindMatches(dst []compra.Match, src []byte) []compra.Match {
	return compra.TokensToMatches(dst, Compress(src, m.WindowSize))
}
