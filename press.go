// Package compra is a collection of small, textbook lossless compression
// codecs: sliding-window coders (LZ77, LZSS, LZO, LZ4, LZ5 and an LZMA-like
// variant), incremental-dictionary coders (LZ78, LZW), entropy coders
// (Huffman and a rank-based FSE-like coder), and two pipelines that chain a
// match coder into an entropy coder (Deflate-like and Zstandard-like).
//
// Like most compressors, the window-based codecs have two parts:
//   - Something that looks for repeated sequences of bytes
//   - An encoder for the compressed data format
//
// This package holds the pieces they share: the intermediate representation
// of matches, the interfaces that let a match finder from one codec feed an
// encoder from another, the exhaustive window search, and the token format
// used to hand data from one pipeline stage to the next.
package compra

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Header appends the appropriate stream header to dst.
	Header(dst []byte) []byte

	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

// Encode runs m over src and writes the result with e as a single block,
// header included.
func Encode(dst []byte, src []byte, m MatchFinder, e Encoder) []byte {
	m.Reset()
	e.Reset()
	matches := m.FindMatches(nil, src)
	dst = e.Header(dst)
	return e.Encode(dst, src, matches, true)
}
