// Package lz4 implements a small LZ4 compressor and decompressor.
//
// Matches are found by exhaustive search over a 16-byte window, are at
// least MinMatch and at most MaxMatch bytes long, and never overlap the
// bytes they produce. The output is the standard LZ4 block format, so it
// can also be read by other LZ4 implementations.
package lz4

import (
	"encoding/binary"
	"errors"

	"github.com/lzforge/compra"
)

const (
	// WindowSize is how far back the compressor looks for a match.
	WindowSize = 16

	// MinMatch is the shortest match that is encoded as a copy.
	MinMatch = 4

	// MaxMatch is the longest match the compressor will produce.
	MaxMatch = 255

	maxDistance = 65535
)

// ErrCorrupt is returned when a block ends in the middle of a sequence.
var ErrCorrupt = errors.New("lz4: corrupt block")

// Window is the search window used by the compressor.
var Window = compra.Window{Size: WindowSize, MaxLength: MaxMatch, NoOverlap: true}

// FindLongestMatch returns the longest match for src[pos:] in the window,
// and its offset.
func FindLongestMatch(src []byte, pos int) (length, offset int) {
	return Window.LongestMatch(src, pos)
}

// MatchFinder is an implementation of the compra.MatchFinder interface that
// finds matches the way Compress does.
type MatchFinder struct{}

func (MatchFinder) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (MatchFinder) FindMatches(dst []compra.Match, src []byte) []compra.Match {
	f := compra.GreedyMatchFinder{Window: Window, MinLength: MinMatch}
	return f.FindMatches(dst, src)
}

// Compress returns src compressed as an LZ4 block.
func Compress(src []byte) []byte {
	var m MatchFinder
	var e BlockEncoder
	return e.Encode(nil, src, m.FindMatches(nil, src), true)
}

// Decompress decodes an LZ4 block.
func Decompress(block []byte) ([]byte, error) {
	return AppendDecompressed(nil, block)
}

// AppendDecompressed decodes an LZ4 block and appends the result to dst.
// Copies in the block may not reach back into the existing contents of dst.
func AppendDecompressed(dst, block []byte) ([]byte, error) {
	base := len(dst)
	for i := 0; i < len(block); {
		token := block[i]
		i++

		var err error
		lit := int(token >> 4)
		if lit == 15 {
			if lit, i, err = readInt(block, i, lit); err != nil {
				return nil, err
			}
		}
		if lit > len(block)-i {
			return nil, &compra.DecodeError{Codec: "lz4", Pos: i, Err: ErrCorrupt}
		}
		dst = append(dst, block[i:i+lit]...)
		i += lit
		if i == len(block) {
			// The last sequence has no match part.
			break
		}

		if i+2 > len(block) {
			return nil, &compra.DecodeError{Codec: "lz4", Pos: i, Err: ErrCorrupt}
		}
		offset := int(binary.LittleEndian.Uint16(block[i:]))
		pos := i
		i += 2

		length := int(token & 0x0f)
		if length == 15 {
			if length, i, err = readInt(block, i, length); err != nil {
				return nil, err
			}
		}
		length += MinMatch

		if offset > len(dst)-base {
			return nil, &compra.DecodeError{Codec: "lz4", Pos: pos, Err: compra.ErrInvalidBackReference}
		}
		if dst, err = compra.AppendCopy(dst, offset, length); err != nil {
			return nil, &compra.DecodeError{Codec: "lz4", Pos: pos, Err: err}
		}
	}
	return dst, nil
}

// readInt reads the continuation bytes of one of LZ4's variable-length
// integers, adding them to n.
func readInt(block []byte, i, n int) (int, int, error) {
	for {
		if i >= len(block) {
			return 0, i, &compra.DecodeError{Codec: "lz4", Pos: i, Err: ErrCorrupt}
		}
		b := block[i]
		i++
		n += int(b)
		if b != 255 {
			return n, i, nil
		}
	}
}
