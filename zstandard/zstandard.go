// Package zstandard chains LZ77 with the rank-based entropy coder from
// package fse, in the manner of Zstandard but not in its format.
package zstandard

import (
	"fmt"
	"log"

	"github.com/lzforge/compra/fse"
	"github.com/lzforge/compra/lz77"
)

// enable debug printing
const debug = false

func printf(format string, a ...interface{}) {
	if debug {
		log.Printf(format, a...)
	}
}

// DefaultWindowSize is the LZ77 window used when Compress is given 0.
const DefaultWindowSize = lz77.DefaultWindowSize

// Tokens returns the text form of the LZ77 tokens for src, which is what
// the entropy stage codes.
func Tokens(src []byte, windowSize int) (string, error) {
	text, err := lz77.FormatTokens(lz77.Compress(src, windowSize))
	if err != nil {
		return "", fmt.Errorf("zstandard: %w", err)
	}
	return text, nil
}

// Compress compresses src: its LZ77 tokens are written as text, and the
// text is coded with fse.
func Compress(src []byte, windowSize int) (fse.Compressed, error) {
	text, err := Tokens(src, windowSize)
	if err != nil {
		return fse.Compressed{}, err
	}
	c := fse.Compress([]byte(text))
	printf("zstandard: %d bytes, %d bytes of tokens, %d symbols, %d bits", len(src), len(text), len(c.Table), c.BitLength)
	return c, nil
}

// Decompress reverses Compress.
func Decompress(c fse.Compressed) ([]byte, error) {
	text, err := fse.Decompress(c)
	if err != nil {
		return nil, fmt.Errorf("zstandard: %w", err)
	}
	tokens, err := lz77.ParseTokens(string(text))
	if err != nil {
		return nil, fmt.Errorf("zstandard: %w", err)
	}
	return lz77.Decompress(tokens)
}
