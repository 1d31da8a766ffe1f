package compra

import (
	"encoding/binary"
	"math/bits"
)

// HashChain is an implementation of the MatchFinder interface that follows
// chains of 4-byte hashes instead of searching a Window exhaustively. It is
// much faster on large inputs, at the price of missing some matches and not
// breaking ties the way Window does.
type HashChain struct {
	// SearchLen is how many entries to examine on the hash chain.
	// The default is 1.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default (and the most allowed) is 65535.
	MaxDistance int

	// Parser chooses among the matches found. The default is a
	// GreedyParser.
	Parser Parser

	table [chainTableSize]uint32
	src   []byte
	chain []uint16
}

const (
	chainTableBits = 14
	chainTableSize = 1 << chainTableBits
	chainTableMask = chainTableSize - 1
	hashMul32      = 0x1e35a7bd
)

func (q *HashChain) Reset() {
	q.table = [chainTableSize]uint32{}
	q.src = nil
	q.chain = q.chain[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Each call starts a new history.
func (q *HashChain) FindMatches(dst []Match, src []byte) []Match {
	if q.MaxDistance <= 0 || q.MaxDistance > 65535 {
		q.MaxDistance = 65535
	}
	if q.SearchLen <= 0 {
		q.SearchLen = 1
	}
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}
	q.Reset()
	q.src = src

	// Table entries are stored as position+1, so that 0 means empty.
	chain := q.chain
	for i := 0; i+4 <= len(src); i++ {
		h := hash4(binary.LittleEndian.Uint32(src[i:])) & chainTableMask
		candidate := int(q.table[h]) - 1
		q.table[h] = uint32(i + 1)
		if candidate < 0 || i-candidate > 65535 {
			chain = append(chain, 0)
		} else {
			chain = append(chain, uint16(i-candidate))
		}
	}
	q.chain = chain

	return q.Parser.Parse(dst, q, 0, len(src))
}

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> (32 - chainTableBits)
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	for j+8 <= len(src) {
		iBytes := binary.LittleEndian.Uint64(src[i:])
		jBytes := binary.LittleEndian.Uint64(src[j:])
		if iBytes != jBytes {
			return j + bits.TrailingZeros64(iBytes^jBytes)>>3
		}
		i, j = i+8, j+8
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}

func (q *HashChain) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos >= len(q.chain) || pos+4 > max {
		return dst
	}
	src := q.src
	searchSeq := binary.LittleEndian.Uint32(src[pos:])

	var length int
	candidate := pos
	for i := 0; i < q.SearchLen; i++ {
		d := q.chain[candidate]
		if d == 0 {
			break
		}
		candidate -= int(d)
		if pos-candidate > q.MaxDistance {
			break
		}
		if binary.LittleEndian.Uint32(src[candidate:]) != searchSeq {
			continue
		}

		newEnd := extendMatch(src[:max], candidate+4, pos+4)

		// Extend the match backward as far as possible.
		newStart := pos
		newMatch := candidate
		for newStart > min && newMatch > 0 && src[newStart-1] == src[newMatch-1] {
			newStart--
			newMatch--
		}

		if newEnd-newStart > length {
			dst = append(dst, AbsoluteMatch{
				Start: newStart,
				End:   newEnd,
				Match: newMatch,
			})
			length = newEnd - newStart
		}
	}

	return dst
}
