// Package bitstream converts between strings of '0' and '1' characters and
// packed bytes.
//
// The entropy coders in this module build their output as a string of bit
// characters, which keeps the codes easy to read and test. Pack turns such a
// string into bytes, most significant bit first, and reports the exact
// number of bits, since the last byte is padded with zeros. Unpack needs
// that number to drop the padding again.
package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/icza/bitio"
)

// ErrBitLength is returned by Unpack when the bit length is negative or
// longer than the data.
var ErrBitLength = errors.New("bitstream: bit length out of range")

// Pack packs bits into bytes, most significant bit first, padding the last
// byte with zero bits. It returns the packed bytes and len(bits).
//
// Pack panics if bits contains anything other than '0' and '1'.
func Pack(bits string) ([]byte, int) {
	return AppendPacked(make([]byte, 0, (len(bits)+7)/8), bits), len(bits)
}

// AppendPacked is like Pack, but appends to dst.
func AppendPacked(dst []byte, bits string) []byte {
	buf := bytes.NewBuffer(dst)
	w := bitio.NewWriter(buf)
	for i := 0; i < len(bits); i++ {
		c := bits[i]
		if c != '0' && c != '1' {
			panic("bitstream: invalid bit character " + string(c))
		}
		// Writes to a bytes.Buffer do not fail.
		w.WriteBool(c == '1')
	}
	// Close writes out the partial last byte, padded with zeros.
	w.Close()
	return buf.Bytes()
}

// Unpack expands data into bit characters, most significant bit first,
// and returns the first bitLength of them.
func Unpack(data []byte, bitLength int) (string, error) {
	if bitLength < 0 || bitLength > 8*len(data) {
		return "", ErrBitLength
	}
	r := bitio.NewReader(bytes.NewReader(data))
	var b strings.Builder
	b.Grow(bitLength)
	for i := 0; i < bitLength; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return "", fmt.Errorf("bitstream: bit %d: %w", i, err)
		}
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String(), nil
}
