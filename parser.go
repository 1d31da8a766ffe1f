package compra

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for matches at one position at a
// time.
type Searcher interface {
	// Search looks for matches at pos and appends them to dst.
	// In each match, Start and End must fall within the interval [min,max),
	// and Match < Start < End.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: It goes from start
// to end, choosing the longest match at each position.
type GreedyParser struct {
	// MinLength is the length below which a match is ignored and the byte
	// at that position is left as a literal. The default is 4.
	MinLength int

	matchCache []AbsoluteMatch
}

func (p *GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = 4
	}
	matches := p.matchCache[:0]
	nextEmit := start

	for s := start; s < end; {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.End-m.Start < minLength {
			s++
			continue
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.matchCache = matches[:0]
	return dst
}

func longestMatch(matches []AbsoluteMatch) AbsoluteMatch {
	var longest AbsoluteMatch

	for _, m := range matches {
		if m.End-m.Start > longest.End-longest.Start {
			longest = m
		}
	}

	return longest
}

// TripleParse implements the classic LZ77 loop, where every token carries a
// literal after its (possibly empty) copy. At each position it takes the
// longest match from w; if the match is at least minLength bytes it becomes
// a copy followed by the next byte, otherwise the byte at that position is
// emitted as a literal on its own.
func TripleParse(dst []Token, w Window, src []byte, minLength int) []Token {
	if minLength <= 0 {
		minLength = 1
	}
	for pos := 0; pos < len(src); {
		length, distance := w.LongestMatch(src, pos)
		if length < minLength {
			dst = append(dst, Token{Next: src[pos], HasNext: true})
			pos++
			continue
		}

		t := Token{Offset: distance, Length: length}
		if pos+length < len(src) {
			t.Next = src[pos+length]
			t.HasNext = true
		}
		dst = append(dst, t)
		pos += length + 1
	}
	return dst
}
