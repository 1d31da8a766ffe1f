// Package deflate chains LZ77 and Huffman coding, in the manner of Deflate
// but not in its format.
//
// The LZ77 tokens for the input are written in their text form, and that
// text is what the Huffman coder compresses. Decompress runs the two stages
// backwards.
package deflate

import (
	"fmt"
	"log"

	"github.com/lzforge/compra/huffman"
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

// Tokens returns the text form of the LZ77 tokens for src: the
// intermediate data that the Huffman stage compresses.
func Tokens(src []byte, windowSize int) (string, error) {
	text, err := lz77.FormatTokens(lz77.Compress(src, windowSize))
	if err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	return text, nil
}

// Compress compresses src.
func Compress(src []byte, windowSize int) (huffman.Compressed, error) {
	text, err := Tokens(src, windowSize)
	if err != nil {
		return huffman.Compressed{}, err
	}
	c := huffman.Compress([]byte(text))
	printf("deflate: %d bytes, %d bytes of tokens, %d bits", len(src), len(text), c.BitLength)
	return c, nil
}

// Decompress reverses Compress.
func Decompress(c huffman.Compressed) ([]byte, error) {
	text, err := huffman.Decompress(c)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	tokens, err := lz77.ParseTokens(string(text))
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	printf("deflate: %d bytes of tokens, %d tokens", len(text), len(tokens))
	return lz77.Decompress(tokens)
}
