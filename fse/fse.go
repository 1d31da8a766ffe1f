// Package fse implements a rank-based entropy coder in the spirit of FSE.
//
// The symbols of the input are ranked by how often they occur, and each
// symbol is given the binary form of its rank as a fixed-width code, wide
// enough to number all the distinct symbols. The table of codes travels
// with the compressed bits.
package fse

import (
	"errors"
	"math/bits"
	"sort"
	"strings"

	"github.com/lzforge/compra/bitstream"
)

// ErrCorrupt is returned when the bits do not decode with the table.
var ErrCorrupt = errors.New("fse: corrupt input")

// An EncodingTable maps each symbol to its code, as a string of '0' and
// '1' characters.
type EncodingTable map[byte]string

// A Symbol is a byte and the number of times it occurs.
type Symbol struct {
	Char      byte
	Frequency int
}

// Compressed is the output of Compress.
type Compressed struct {
	Data  []byte
	Table EncodingTable

	// BitLength is the number of meaningful bits in Data.
	BitLength int
}

// Rank returns the distinct bytes of src, most frequent first. Bytes with
// the same frequency are ordered by value.
func Rank(src []byte) []Symbol {
	var counts [256]int
	for _, c := range src {
		counts[c]++
	}
	var symbols []Symbol
	for c, n := range counts {
		if n > 0 {
			symbols = append(symbols, Symbol{Char: byte(c), Frequency: n})
		}
	}
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Frequency > symbols[j].Frequency
	})
	return symbols
}

// CodeWidth returns the number of bits needed to give n symbols distinct
// codes. It is at least 1, so that a single symbol still has a code.
func CodeWidth(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// BuildEncodingTable assigns each distinct byte of src its rank, written
// in CodeWidth bits with the least significant bit first.
func BuildEncodingTable(src []byte) EncodingTable {
	symbols := Rank(src)
	width := CodeWidth(len(symbols))
	table := make(EncodingTable, len(symbols))
	code := make([]byte, width)
	for rank, s := range symbols {
		for bit := range code {
			code[bit] = '0' + byte(rank>>bit&1)
		}
		table[s.Char] = string(code)
	}
	return table
}

// Compress codes src with the table built by BuildEncodingTable.
func Compress(src []byte) Compressed {
	table := BuildEncodingTable(src)

	var b strings.Builder
	for _, c := range src {
		b.WriteString(table[c])
	}

	data, n := bitstream.Pack(b.String())
	return Compressed{Data: data, Table: table, BitLength: n}
}

// Decompress decodes c. The bits are matched against the table one bit at
// a time, so the codes need not all have the same width, as long as none
// is a prefix of another.
func Decompress(c Compressed) ([]byte, error) {
	bitString, err := bitstream.Unpack(c.Data, c.BitLength)
	if err != nil {
		return nil, err
	}

	reverse := make(map[string]byte, len(c.Table))
	maxWidth := 0
	for s, code := range c.Table {
		if _, dup := reverse[code]; dup || code == "" {
			return nil, ErrCorrupt
		}
		reverse[code] = s
		if len(code) > maxWidth {
			maxWidth = len(code)
		}
	}

	var out []byte
	start := 0
	for i := 0; i < len(bitString); i++ {
		if s, ok := reverse[bitString[start:i+1]]; ok {
			out = append(out, s)
			start = i + 1
		} else if i+1-start >= maxWidth {
			return nil, ErrCorrupt
		}
	}
	if start != len(bitString) {
		return nil, ErrCorrupt
	}
	return out, nil
}
