package huffman

import (
	"encoding/binary"
	"errors"
	"sort"
	"strconv"
)

var errMalformedTable = errors.New("huffman: malformed frequency table")

// FormatFrequencies returns freq as text, one 'symbol':'count' entry per
// symbol in ascending symbol order, each followed by a space.
func FormatFrequencies(freq FrequencyTable) string {
	var b []byte
	for _, c := range sortedSymbols(freq) {
		b = append(b, '\'', c, '\'', ':', '\'')
		b = strconv.AppendInt(b, int64(freq[c]), 10)
		b = append(b, '\'', ' ')
	}
	return string(b)
}

// ParseFrequencies parses text written by FormatFrequencies. The symbol is
// read by position, so it may be a quote, colon or space.
func ParseFrequencies(text string) (FrequencyTable, error) {
	freq := make(FrequencyTable)
	for i := 0; i < len(text); {
		// 'c':'
		if len(text)-i < 6 || text[i] != '\'' || text[i+2] != '\'' || text[i+3] != ':' || text[i+4] != '\'' {
			return nil, errMalformedTable
		}
		c := text[i+1]
		i += 5
		start := i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		if i == start || len(text)-i < 2 || text[i] != '\'' || text[i+1] != ' ' {
			return nil, errMalformedTable
		}
		n, err := strconv.Atoi(text[start:i])
		if err != nil {
			return nil, errMalformedTable
		}
		freq[c] = n
		i += 2
	}
	return freq, nil
}

func sortedSymbols(freq FrequencyTable) []byte {
	symbols := make([]byte, 0, len(freq))
	for c := range freq {
		symbols = append(symbols, c)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// MarshalBinary encodes c as the bit length, the number of table entries,
// each entry as a symbol byte and its count, and then the packed bits. The
// numbers are unsigned varints.
func (c Compressed) MarshalBinary() ([]byte, error) {
	if c.BitLength < 0 || c.BitLength > 8*len(c.Data) {
		return nil, errors.New("huffman: bit length does not match data")
	}
	b := binary.AppendUvarint(nil, uint64(c.BitLength))
	b = binary.AppendUvarint(b, uint64(len(c.Frequencies)))
	for _, s := range sortedSymbols(c.Frequencies) {
		b = append(b, s)
		b = binary.AppendUvarint(b, uint64(c.Frequencies[s]))
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

	freq := make(FrequencyTable, count)
	for i := uint64(0); i < count; i++ {
		if len(data) == 0 {
			return errMalformedTable
		}
		s := data[0]
		f, n := binary.Uvarint(data[1:])
		if n <= 0 || f > 1<<40 {
			return errMalformedTable
		}
		freq[s] = int(f)
		data = data[1+n:]
	}
	if uint64(len(data)) != (bitLength+7)/8 {
		return errMalformedTable
	}

	c.Data = append([]byte(nil), data...)
	c.Frequencies = freq
	c.BitLength = int(bitLength)
	return nil
}
