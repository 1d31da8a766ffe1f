// Package lz78 implements the LZ78 coder, which builds a dictionary of
// phrases as it reads the input and describes each new phrase as a known
// phrase plus one byte.
package lz78

import (
	"errors"
	"strconv"

	"github.com/lzforge/compra"
)

// A Token refers to dictionary entry Index (0 is the empty phrase) and
// extends it with the byte Next.
type Token struct {
	Index int
	Next  byte
}

// FindPrefixIndex returns the code of buffer without its last byte, or 0
// if that prefix is empty or unknown.
func FindPrefixIndex(dictionary map[string]int, buffer string) int {
	if len(buffer) > 1 {
		if code, ok := dictionary[buffer[:len(buffer)-1]]; ok {
			return code
		}
	}
	return 0
}

// Compress returns the LZ78 tokens for src. Codes are assigned from 1 in
// the order the phrases are added.
func Compress(src []byte) []Token {
	dictionary := make(map[string]int)
	var tokens []Token
	start := 0

	for i, c := range src {
		buffer := string(src[start : i+1])
		if _, ok := dictionary[buffer]; ok {
			continue
		}
		tokens = append(tokens, Token{Index: FindPrefixIndex(dictionary, buffer), Next: c})
		dictionary[buffer] = len(dictionary) + 1
		start = i + 1
	}

	if start < len(src) {
		// The input ended inside a known phrase.
		buffer := string(src[start:])
		tokens = append(tokens, Token{Index: FindPrefixIndex(dictionary, buffer), Next: buffer[len(buffer)-1]})
	}

	return tokens
}

// Decompress rebuilds the data described by tokens, growing the same
// dictionary the compressor built.
func Decompress(tokens []Token) ([]byte, error) {
	dictionary := [][]byte{nil}
	var out []byte

	for i, t := range tokens {
		if t.Index < 0 || t.Index >= len(dictionary) {
			return nil, &compra.DecodeError{Codec: "lz78", Pos: i, Err: compra.ErrInvalidCode}
		}
		prefix := dictionary[t.Index]
		entry := make([]byte, len(prefix)+1)
		copy(entry, prefix)
		entry[len(prefix)] = t.Next

		dictionary = append(dictionary, entry)
		out = append(out, entry...)
	}

	return out, nil
}

var errMalformed = errors.New("lz78: malformed token text")

// FormatTokens returns the text form of tokens: index,next records separated
// by semicolons, with the byte written as is.
func FormatTokens(tokens []Token) string {
	var b []byte
	for i, t := range tokens {
		if i > 0 {
			b = append(b, ';')
		}
		b = strconv.AppendInt(b, int64(t.Index), 10)
		b = append(b, ',', t.Next)
	}
	return string(b)
}

// ParseTokens parses text written by FormatTokens.
func ParseTokens(text string) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(text); {
		start := i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		// Digits, a comma and the byte.
		if i == start || i+1 >= len(text) || text[i] != ',' {
			return nil, errMalformed
		}
		index, err := strconv.Atoi(text[start:i])
		if err != nil {
			return nil, errMalformed
		}
		tokens = append(tokens, Token{Index: index, Next: text[i+1]})
		i += 2
		if i < len(text) {
			if text[i] != ';' {
				return nil, errMalformed
			}
			i++
		}
	}
	return tokens, nil
}
