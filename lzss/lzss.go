// Package lzss implements LZSS, where each token is either a single literal
// byte or a back-reference, never both.
package lzss

import (
	"errors"
	"strconv"

	"github.com/lzforge/compra"
)

// MinMatch is the shortest match that is encoded as a back-reference.
const MinMatch = 3

// Options configures Compress.
type Options struct {
	// WindowSize is how far back to look for a match.
	WindowSize int
	// LookaheadSize is the longest match that will be encoded.
	LookaheadSize int
}

// DefaultOptions returns a 4 KiB window with an 18-byte lookahead.
func DefaultOptions() *Options {
	return &Options{
		WindowSize:    4 * 1024,
		LookaheadSize: 18,
	}
}

// Window returns the search window described by o. Zero fields take their
// values from DefaultOptions.
func (o *Options) Window() compra.Window {
	d := DefaultOptions()
	if o == nil {
		o = d
	}
	w := compra.Window{Size: o.WindowSize, MaxLength: o.LookaheadSize, NoOverlap: true}
	if w.Size <= 0 {
		w.Size = d.WindowSize
	}
	if w.MaxLength <= 0 {
		w.MaxLength = d.LookaheadSize
	}
	return w
}

// A Token is a literal byte if IsLiteral is set, and otherwise a copy of
// Length bytes from Offset bytes back.
type Token struct {
	IsLiteral bool
	Literal   byte
	Offset    int
	Length    int
}

// FindBestMatch returns the longest match for src[pos:] in the window.
func FindBestMatch(src []byte, pos int, opts *Options) (length, offset int) {
	return opts.Window().LongestMatch(src, pos)
}

// A MatchFinder is an implementation of the compra.MatchFinder interface
// that finds LZSS matches.
type MatchFinder struct {
	Options *Options

	finder compra.GreedyMatchFinder
}

func (m *MatchFinder) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (m *MatchFinder) FindMatches(dst []compra.Match, src []byte) []compra.Match {
	m.finder.Window = m.Options.Window()
	m.finder.MinLength = MinMatch
	return m.finder.FindMatches(dst, src)
}

// Compress returns the LZSS tokens for src. A nil opts means DefaultOptions.
func Compress(src []byte, opts *Options) []Token {
	mf := MatchFinder{Options: opts}
	matches := mf.FindMatches(nil, src)

	var tokens []Token
	pos := 0
	for _, m := range matches {
		for _, c := range src[pos : pos+m.Unmatched] {
			tokens = append(tokens, Token{IsLiteral: true, Literal: c})
		}
		pos += m.Unmatched
		if m.Length > 0 {
			tokens = append(tokens, Token{Offset: m.Distance, Length: m.Length})
			pos += m.Length
		}
	}
	return tokens
}

// Decompress rebuilds the data described by tokens. Copies that reach
// farther back than the window or are longer than the lookahead are
// rejected. A nil opts means DefaultOptions.
func Decompress(tokens []Token, opts *Options) ([]byte, error) {
	w := opts.Window()
	var out []byte
	for i, t := range tokens {
		if t.IsLiteral {
			out = append(out, t.Literal)
			continue
		}
		if t.Offset > w.Size || t.Length > w.MaxLength {
			return nil, &compra.DecodeError{Codec: "lzss", Pos: i, Err: compra.ErrInvalidBackReference}
		}
		var err error
		if out, err = compra.AppendCopy(out, t.Offset, t.Length); err != nil {
			return nil, &compra.DecodeError{Codec: "lzss", Pos: i, Err: err}
		}
	}
	return out, nil
}

var errMalformed = errors.New("lzss: malformed token text")

// FormatTokens returns the text form of tokens: a literal is written as L
// followed by the byte, and a match as M followed by offset,length. Tokens
// are separated by semicolons.
func FormatTokens(tokens []Token) string {
	var b []byte
	for i, t := range tokens {
		if i > 0 {
			b = append(b, ';')
		}
		if t.IsLiteral {
			b = append(b, 'L', t.Literal)
			continue
		}
		b = append(b, 'M')
		b = strconv.AppendInt(b, int64(t.Offset), 10)
		b = append(b, ',')
		b = strconv.AppendInt(b, int64(t.Length), 10)
	}
	return string(b)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(text); {
		switch text[i] {
		case 'L':
			if i+1 >= len(text) {
				return nil, errMalformed
			}
			tokens = append(tokens, Token{IsLiteral: true, Literal: text[i+1]})
			i += 2
		case 'M':
			var t Token
			var err error
			if t.Offset, i, err = parseNumber(text, i+1, ','); err != nil {
				return nil, err
			}
			if t.Length, i, err = parseNumber(text, i+1, ';'); err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		default:
			return nil, errMalformed
		}
		if i < len(text) {
			if text[i] != ';' {
				return nil, errMalformed
			}
			i++
		}
	}
	return tokens, nil
}

// parseNumber reads decimal digits starting at text[i], which must be
// followed by end of text or by sep. It returns the number and the index
// of the byte after the digits.
func parseNumber(text string, i int, sep byte) (int, int, error) {
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start || (i < len(text) && text[i] != sep) || (i == len(text) && sep == ',') {
		return 0, i, errMalformed
	}
	n, err := strconv.Atoi(text[start:i])
	if err != nil {
		return 0, i, errMalformed
	}
	return n, i, nil
}
