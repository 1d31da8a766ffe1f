package fse

import (
	"encoding/binary"
	"errors"
	"sort"

	"github.com/lzforge/compra/bitstream"
)

var errMalformedTable = errors.New("fse: malformed encoding table")

func sortedSymbols(table EncodingTable) []byte {
	symbols := make([]byte, 0, len(table))
	for c := range table {
		symbols = append(symbols, c)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// FormatTable returns table as text, one 'symbol':'code' entry per symbol
// in ascending symbol order, each followed by a space.
func FormatTable(table EncodingTable) string {
	var b []byte
	for _, c := range sortedSymbols(table) {
		b = append(b, '\'', c, '\'', ':', '\'')
		b = append(b, table[c]...)
		b = append(b, '\'', ' ')
	}
	return string(b)
}

// ParseTable parses text written by FormatTable.
func ParseTable(text string) (EncodingTable, error) {
	table := make(EncodingTable)
	for i := 0; i < len(text); {
		if len(text)-i < 6 || text[i] != '\'' || text[i+2] != '\'' || text[i+3] != ':' || text[i+4] != '\'' {
			return nil, errMalformedTable
		}
		c := text[i+1]
		i += 5
		start := i
		for i < len(text) && (text[i] == '0' || text[i] == '1') {
			i++
		}
		if i == start || len(text)-i < 2 || text[i] != '\'' || text[i+1] != ' ' {
			return nil, errMalformedTable
		}
		table[c] = text[start:i]
		i += 2
	}
	return table, nil
}

// MarshalBinary encodes c as the bit length and the number of table
// entries (unsigned varints), each entry as its symbol, code width and
// packed code, and then the packed bits.
func (c Compressed) MarshalBinary() ([]byte, error) {
	if c.BitLength < 0 || c.BitLength > 8*len(c.Data) {
		return nil, errors.New("fse: bit length does not match data")
	}
	b := binary.AppendUvarint(nil, uint64(c.BitLength))
	b = binary.AppendUvarint(b, uint64(len(c.Table)))
	for _, s := range sortedSymbols(c.Table) {
		code := c.Table[s]
		if len(code) == 0 || len(code) > 255 {
			return nil, errMalformedTable
		}
		b = append(b, s, byte(len(code)))
		b = bitstream.AppendPacked(b, code)
	}
	return append(b, c.Data[:(c.BitLength+7)/8]...), nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (c *Compressed) UnmarshalBinary(data []byte) error {
	bitLength, n := binary.Uvarint(data)
	if n <= 0 || bitLength > 1<<40 {
		return errMalformedTable
	}
	data = data[n:]
	count, n := binary.Uvarint(data)
	if n <= 0 || count > 256 {
		return errMalformedTable
	}
	data = data[n:]

	table := make(EncodingTable, count)
	for i := uint64(0); i < count; i++ {
		if len(data) < 2 {
			return errMalformedTable
		}
		s, width := data[0], int(data[1])
		size := (width + 7) / 8
		if width == 0 || len(data) < 2+size {
			return errMalformedTable
		}
		code, err := bitstream.Unpack(data[2:2+size], width)
		if err != nil {
			return errMalformedTable
		}
		table[s] = code
		data = data[2+size:]
	}
	if uint64(len(data)) != (bitLength+7)/8 {
		return errMalformedTable
	}

	c.Data = append([]byte(nil), data...)
	c.Table = table
	c.BitLength = int(bitLength)
	return nil
}
