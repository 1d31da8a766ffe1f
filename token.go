package compra

import (
	"errors"
	"strconv"
)

// A Token is one step of the classic LZ77 output: copy Length bytes from
// Offset bytes back, then emit the literal Next if HasNext is set. A token
// with Length 0 is a plain literal.
type Token struct {
	Offset  int
	Length  int
	Next    byte
	HasNext bool
}

// ErrMalformedTokens is returned by ParseTokens for text that was not
// produced by AppendTokens.
var ErrMalformedTokens = errors.New("malformed token text")

// AppendTokens appends the text form of tokens to dst. Each token is written
// as offset,length,literal and tokens are separated by semicolons. The
// literal byte is written as is; a token without a literal leaves the last
// field empty, which is only allowed for the final token.
func AppendTokens(dst []byte, tokens []Token) ([]byte, error) {
	for i, t := range tokens {
		if i > 0 {
			dst = append(dst, ';')
		}
		dst = strconv.AppendInt(dst, int64(t.Offset), 10)
		dst = append(dst, ',')
		dst = strconv.AppendInt(dst, int64(t.Length), 10)
		dst = append(dst, ',')
		if !t.HasNext {
			if i != len(tokens)-1 {
				return dst, &DecodeError{Codec: "tokens", Pos: i, Err: ErrTrailingToken}
			}
			continue
		}
		dst = append(dst, t.Next)
	}
	return dst, nil
}

// FormatTokens returns the text form of tokens, as written by AppendTokens.
func FormatTokens(tokens []Token) (string, error) {
	b, err := AppendTokens(nil, tokens)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseTokens parses the text form written by AppendTokens.
//
// The fields are read by position rather than by splitting on the
// separators: after the second comma comes exactly one literal byte, so a
// literal that happens to be ';' or ',' is read correctly.
func ParseTokens(text []byte) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(text); {
		var t Token
		var err error
		if t.Offset, i, err = parseField(text, i); err != nil {
			return nil, err
		}
		if t.Length, i, err = parseField(text, i); err != nil {
			return nil, err
		}
		if i == len(text) {
			tokens = append(tokens, t)
			break
		}

		t.Next = text[i]
		t.HasNext = true
		tokens = append(tokens, t)
		i++
		if i == len(text) {
			break
		}
		if text[i] != ';' || i+1 == len(text) {
			return nil, &DecodeError{Codec: "tokens", Pos: i, Err: ErrMalformedTokens}
		}
		i++
	}
	return tokens, nil
}

// parseField reads a decimal number terminated by a comma, starting at
// text[i]. It returns the number and the index after the comma.
func parseField(text []byte, i int) (int, int, error) {
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start || i == len(text) || text[i] != ',' {
		return 0, i, &DecodeError{Codec: "tokens", Pos: i, Err: ErrMalformedTokens}
	}
	n, err := strconv.Atoi(string(text[start:i]))
	if err != nil {
		return 0, i, &DecodeError{Codec: "tokens", Pos: start, Err: ErrMalformedTokens}
	}
	return n, i + 1, nil
}

// TokensToMatches converts tokens to the Match representation, so that they
// can be written by any Encoder. Each literal is counted as unmatched data
// in front of the next copy.
func TokensToMatches(dst []Match, tokens []Token) []Match {
	unmatched := 0
	for _, t := range tokens {
		if t.Length > 0 {
			dst = append(dst, Match{
				Unmatched: unmatched,
				Length:    t.Length,
				Distance:  t.Offset,
			})
			unmatched = 0
		}
		if t.HasNext {
			unmatched++
		}
	}
	if unmatched > 0 {
		dst = append(dst, Match{Unmatched: unmatched})
	}
	return dst
}
