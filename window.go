package compra

// A Window describes where a sliding-window codec may look for matches and
// how long they may be. It searches exhaustively, trying every start
// position in the window from left to right.
type Window struct {
	// Size is how far back (in bytes) to look for a match. If it is zero or
	// negative, the whole history is searched.
	Size int

	// MaxLength caps the length of a match. Zero means no limit.
	MaxLength int

	// NoOverlap keeps the source of a match entirely before the current
	// position. Without it, a match may run on into the bytes it is
	// producing, as in a run of repeated bytes.
	NoOverlap bool
}

// LongestMatch returns the longest run of bytes starting at pos that also
// starts somewhere in the window before pos, and how far back that run is.
// When several runs have the same length, the first one found (the one
// farthest back) wins. If nothing matches, length is 0.
func (w Window) LongestMatch(src []byte, pos int) (length, distance int) {
	start := 0
	if w.Size > 0 && pos > w.Size {
		start = pos - w.Size
	}

	limit := len(src) - pos
	if w.MaxLength > 0 && w.MaxLength < limit {
		limit = w.MaxLength
	}

	for j := start; j < pos && length < limit; j++ {
		n := 0
		for n < limit && src[j+n] == src[pos+n] {
			if w.NoOverlap && j+n >= pos {
				break
			}
			n++
		}
		if n > length {
			length = n
			distance = pos - j
		}
	}
	return length, distance
}

// Searcher returns a Searcher that finds matches in src.
func (w Window) Searcher(src []byte) Searcher {
	return &windowSearcher{w: w, src: src}
}

type windowSearcher struct {
	w   Window
	src []byte
}

func (s *windowSearcher) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos >= max {
		return dst
	}
	length, distance := s.w.LongestMatch(s.src[:max], pos)
	if length == 0 {
		return dst
	}
	return append(dst, AbsoluteMatch{
		Start: pos,
		End:   pos + length,
		Match: pos - distance,
	})
}

// A GreedyMatchFinder is an implementation of the MatchFinder interface
// that searches a Window exhaustively and parses greedily.
type GreedyMatchFinder struct {
	Window Window

	// MinLength is the shortest match that will be used. The default is 4.
	MinLength int

	parser GreedyParser
}

func (f *GreedyMatchFinder) Reset() {}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (f *GreedyMatchFinder) FindMatches(dst []Match, src []byte) []Match {
	f.parser.MinLength = f.MinLength
	return f.parser.Parse(dst, f.Window.Searcher(src), 0, len(src))
}
