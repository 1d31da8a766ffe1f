// Package lzw implements the LZW coder. The code table starts with one
// entry for every byte value, and each code emitted adds a new entry one
// byte longer than an existing one, starting at code 256.
//
// Compress and Decompress follow the textbook description closely.
// CompressOptimized and DecompressOptimized produce and accept the same
// codes, but avoid some of the map lookups and string building.
package lzw

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lzforge/compra"
)

// FirstCode is the first code assigned to a multi-byte string.
const FirstCode = 256

var (
	// ErrInvalidStream is returned (wrapped in a *compra.DecodeError) when a
	// code is neither in the table nor the next code to be assigned. It
	// matches compra.ErrInvalidCode with errors.Is.
	ErrInvalidStream = fmt.Errorf("invalid LZW stream: %w", compra.ErrInvalidCode)

	errTruncated = errors.New("lzw: truncated code list")
)

func newDictionary() map[string]int {
	dictionary := make(map[string]int, 512)
	for i := 0; i < 256; i++ {
		dictionary[string([]byte{byte(i)})] = i
	}
	return dictionary
}

// Compress returns the LZW codes for src.
func Compress(src []byte) []int {
	dictionary := newDictionary()
	code := FirstCode
	var result []int
	current := ""

	for _, c := range src {
		next := current + string([]byte{c})
		if _, ok := dictionary[next]; ok {
			current = next
			continue
		}
		result = append(result, dictionary[current])
		dictionary[next] = code
		code++
		current = string([]byte{c})
	}
	if current != "" {
		result = append(result, dictionary[current])
	}
	return result
}

// CompressOptimized returns the same codes as Compress. It keeps the
// current string as a slice of src, and looks up the code to emit from the
// slice it already has instead of building a second string.
func CompressOptimized(src []byte) []int {
	dictionary := newDictionary()
	code := FirstCode
	var result []int
	start := 0

	for i := range src {
		current := src[start : i+1]
		if _, ok := dictionary[string(current)]; ok {
			continue
		}
		result = append(result, dictionary[string(current[:len(current)-1])])
		dictionary[string(current)] = code
		code++
		start = i
	}
	if start < len(src) {
		result = append(result, dictionary[string(src[start:])])
	}
	return result
}

// Decompress rebuilds the data described by codes.
func Decompress(codes []int) ([]byte, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	dictionary := make(map[int]string, 512)
	for i := 0; i < 256; i++ {
		dictionary[i] = string([]byte{byte(i)})
	}
	code := FirstCode

	current, ok := dictionary[codes[0]]
	if !ok {
		return nil, &compra.DecodeError{Codec: "lzw", Pos: 0, Err: ErrInvalidStream}
	}
	result := []byte(current)

	for i := 1; i < len(codes); i++ {
		entry, ok := dictionary[codes[i]]
		if !ok {
			if codes[i] != code {
				return nil, &compra.DecodeError{Codec: "lzw", Pos: i, Err: ErrInvalidStream}
			}
			entry = current + current[:1]
		}
		result = append(result, entry...)
		dictionary[code] = current + entry[:1]
		code++
		current = entry
	}
	return result, nil
}

// DecompressOptimized decodes the same codes as Decompress. The table is a
// slice indexed by code, and each entry is a slice of the output.
func DecompressOptimized(codes []int) ([]byte, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	if codes[0] < 0 || codes[0] >= FirstCode {
		return nil, &compra.DecodeError{Codec: "lzw", Pos: 0, Err: ErrInvalidStream}
	}

	// table[c-FirstCode] holds the start and end of entry c in result.
	type span struct{ start, end int }
	table := make([]span, 0, len(codes))
	lookup := func(result []byte, c int) []byte {
		if c < FirstCode {
			return []byte{byte(c)}
		}
		s := table[c-FirstCode]
		return result[s.start:s.end]
	}

	result := []byte{byte(codes[0])}
	prevStart := 0

	for i := 1; i < len(codes); i++ {
		c := codes[i]
		next := FirstCode + len(table)
		start := len(result)
		switch {
		case c >= 0 && c < next:
			result = append(result, lookup(result, c)...)
		case c == next:
			// The code being defined right now: the previous entry followed
			// by its own first byte.
			result = append(result, result[prevStart:start]...)
			result = append(result, result[prevStart])
		default:
			return nil, &compra.DecodeError{Codec: "lzw", Pos: i, Err: ErrInvalidStream}
		}
		// The new entry is the previous one plus the first byte of this one,
		// which sits in result right after the previous entry.
		table = append(table, span{prevStart, start + 1})
		prevStart = start
	}
	return result, nil
}

// AppendCodes appends codes to dst as unsigned varints.
func AppendCodes(dst []byte, codes []int) []byte {
	for _, c := range codes {
		dst = binary.AppendUvarint(dst, uint64(c))
	}
	return dst
}

// ParseCodes reads codes written by AppendCodes.
func ParseCodes(data []byte) ([]int, error) {
	var codes []int
	for len(data) > 0 {
		c, n := binary.Uvarint(data)
		if n <= 0 || c > 1<<31 {
			return nil, errTruncated
		}
		codes = append(codes, int(c))
		data = data[n:]
	}
	return codes, nil
}
