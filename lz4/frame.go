package lz4

import (
	"encoding/binary"
	"hash"
	"io"

	"github.com/lzforge/compra"
	"github.com/pierrec/xxHash/xxHash32"
)

// MaxBlockSize is the largest block a FrameEncoder accepts in one call to
// Encode (the 4 MB block size announced in the frame header).
const MaxBlockSize = 4 << 20

// A FrameEncoder implements the compra.Encoder interface,
// writing in the LZ4 frame format.
type FrameEncoder struct {
	hasher      hash.Hash32
	blockBuffer []byte
}

func (f *FrameEncoder) Header(dst []byte) []byte { return dst }

func (f *FrameEncoder) Reset() {
	f.hasher = nil
}

func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []compra.Match, lastBlock bool) []byte {
	if len(src) > MaxBlockSize {
		panic("lz4: block too large")
	}
	if f.hasher == nil {
		f.hasher = xxHash32.New(0)
		dst = binary.LittleEndian.AppendUint32(dst, 0x184D2204)
		// Frame header for content checksum enabled, and 4-MB blocks.
		dst = append(dst, 0x44, 0x70, 0x1d)
	}

	if len(src) > 0 {
		var be BlockEncoder
		f.blockBuffer = be.Encode(f.blockBuffer[:0], src, matches, lastBlock)
		if len(f.blockBuffer) >= len(src) {
			// Not worth compressing; store the block as is.
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(src))|0x80000000)
			dst = append(dst, src...)
		} else {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
			dst = append(dst, f.blockBuffer...)
		}
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
	}

	return dst
}

// CompressFrame compresses src into a complete LZ4 frame.
func CompressFrame(src []byte) []byte {
	var f FrameEncoder
	var m MatchFinder
	var dst []byte
	for {
		n := len(src)
		if n > MaxBlockSize {
			n = MaxBlockSize
		}
		block := src[:n]
		src = src[n:]
		dst = f.Encode(dst, block, m.FindMatches(nil, block), len(src) == 0)
		if len(src) == 0 {
			return dst
		}
	}
}

// NewWriter returns a Writer that compresses to dst in the frame format.
// If mf is nil, the exhaustive MatchFinder is used.
func NewWriter(dst io.Writer, mf compra.MatchFinder) *compra.Writer {
	if mf == nil {
		mf = MatchFinder{}
	}
	return &compra.Writer{
		Dest:        dst,
		MatchFinder: mf,
		Encoder:     &FrameEncoder{},
		BlockSize:   1 << 16,
	}
}
