// Package snappy writes the matches found by any compra.MatchFinder in the
// Snappy block and framing formats.
package snappy

import (
	"hash/crc32"
	"io"

	"github.com/lzforge/compra"
)

// MaxChunkSize is the most uncompressed data one framed chunk may hold.
const MaxChunkSize = 65536

// An Encoder implements the compra.Encoder interface, writing the Snappy
// framing format. Each call to Encode writes one chunk, so src may be at
// most MaxChunkSize bytes.
type Encoder struct {
	wroteHeader bool
}

var magicChunk = []byte("\xff\x06\x00\x00sNaPpY")

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// crc implements the checksum specified in section 3 of
// https://github.com/google/snappy/blob/master/framing_format.txt
func crc(b []byte) uint32 {
	c := crc32.Update(0, crcTable, b)
	return uint32(c>>15|c<<17) + 0xa282ead8
}

func (e *Encoder) Header(dst []byte) []byte {
	if e.wroteHeader {
		return dst
	}
	e.wroteHeader = true
	return append(dst, magicChunk...)
}

func (e *Encoder) Reset() {
	e.wroteHeader = false
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []compra.Match, lastBlock bool) []byte {
	if len(src) > MaxChunkSize {
		panic("snappy: block too large")
	}

	dst = e.Header(dst)

	start := len(dst)
	checksum := crc(src)

	dst = append(dst,
		0,       // chunk type: compressed data
		0, 0, 0, // placeholder for compressed length
		byte(checksum), byte(checksum>>8), byte(checksum>>16), byte(checksum>>24),
	)
	dataStart := len(dst)

	dst = AppendBlock(dst, src, matches)

	dataLen := len(dst) - dataStart
	if dataLen >= len(src)-len(src)/8 {
		// The compression isn't saving even 12.5%.
		// Just do an uncompressed chunk.
		dst = append(dst[:dataStart], src...)
		dst[start] = 1 // chunk type: uncompressed data
		dataLen = len(src)
	}

	chunkLen := dataLen + 4
	dst[start+1] = byte(chunkLen)
	dst[start+2] = byte(chunkLen >> 8)
	dst[start+3] = byte(chunkLen >> 16)

	return dst
}

// AppendBlock appends src to dst in the Snappy block format, using the
// copies described by matches.
func AppendBlock(dst []byte, src []byte, matches []compra.Match) []byte {
	dst = appendUvarint(dst, uint64(len(src)))

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = appendLiteral(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendCopy(dst, m.Length, m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiteral(dst, src[pos:])
	}
	return dst
}

// EncodeFramed compresses src into a complete framed stream, running mf
// over each chunk separately.
func EncodeFramed(dst []byte, src []byte, mf compra.MatchFinder) []byte {
	var e Encoder
	dst = e.Header(dst)
	for len(src) > 0 {
		n := len(src)
		if n > MaxChunkSize {
			n = MaxChunkSize
		}
		mf.Reset()
		dst = e.Encode(dst, src[:n], mf.FindMatches(nil, src[:n]), n == len(src))
		src = src[n:]
	}
	return dst
}

// NewWriter returns a Writer that compresses to dst in the framing format.
// If mf is nil, a HashChain with an OverlapParser is used.
func NewWriter(dst io.Writer, mf compra.MatchFinder) *compra.Writer {
	if mf == nil {
		mf = &compra.HashChain{SearchLen: 4, Parser: &compra.OverlapParser{}}
	}
	return &compra.Writer{
		Dest:        dst,
		MatchFinder: mf,
		Encoder:     &Encoder{},
		BlockSize:   MaxChunkSize,
	}
}

const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02
	tagCopy4   = 0x03
)

func appendLiteral(dst, lit []byte) []byte {
	n := len(lit) - 1
	switch {
	case n < 60:
		dst = append(dst, byte(n)<<2|tagLiteral)
	case n < 1<<8:
		dst = append(dst, 60<<2|tagLiteral, byte(n))
	case n < 1<<16:
		dst = append(dst, 61<<2|tagLiteral, byte(n), byte(n>>8))
	case n < 1<<24:
		dst = append(dst, 62<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16))
	default:
		dst = append(dst, 63<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return append(dst, lit...)
}

func appendCopy(dst []byte, length, offset int) []byte {
	if offset >= 1<<16 {
		// Offsets this far back need a 4-byte offset field, and each
		// element can copy at most 64 bytes.
		for length > 0 {
			n := length
			if n > 64 {
				n = 64
			}
			dst = append(dst,
				byte(n-1)<<2|tagCopy4,
				byte(offset),
				byte(offset>>8),
				byte(offset>>16),
				byte(offset>>24),
			)
			length -= n
		}
		return dst
	}

	// The maximum length for a single tagCopy1 or tagCopy2 op is 64 bytes. The
	// threshold for this loop is a little higher (at 68 = 64 + 4), and the
	// length emitted down below is is a little lower (at 60 = 64 - 4), because
	// it's shorter to encode a length 67 copy as a length 60 tagCopy2 followed
	// by a length 7 tagCopy1 (which encodes as 3+2 bytes) than to encode it as
	// a length 64 tagCopy2 followed by a length 3 tagCopy2 (which encodes as
	// 3+3 bytes).
	for length >= 68 {
		// Emit a length 64 copy, encoded as 3 bytes.
		dst = append(dst,
			63<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 64
	}
	if length > 64 {
		// Emit a length 60 copy, encoded as 3 bytes.
		dst = append(dst,
			59<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 60
	}
	if length < 4 || length >= 12 || offset >= 2048 {
		// tagCopy1 only covers lengths 4 to 11 and offsets below 2048.
		return append(dst,
			byte(length-1)<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
	}
	// Emit the remaining copy, encoded as 2 bytes.
	return append(dst,
		byte(offset>>8)<<5|byte(length-4)<<2|tagCopy1,
		byte(offset),
	)
}

// appendUvarint appends x to dst in varint format.
func appendUvarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}
