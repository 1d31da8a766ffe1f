package compra

// An OverlapParser looks for overlapping matches and chooses the best ones,
// using an algorithm based on
// https://fastcompression.blogspot.com/2011/12/advanced-parsing-strategies.html
//
// It only does better than GreedyParser with a Searcher that extends matches
// backward, such as HashChain.
type OverlapParser struct {
	// Score is used to choose the best match. If it is nil,
	// the length of the match is used as its score.
	Score func(AbsoluteMatch) int

	// MinLength is the shortest match that will be kept. The default is 4.
	MinLength int

	matchCache []AbsoluteMatch
	setCache   []matchSet
}

func matchLength(m AbsoluteMatch) int {
	return m.End - m.Start
}

type matchSet struct {
	AbsoluteMatch
	options []AbsoluteMatch
}

// choose picks the best match from ms.options, with its range limited to
// min..max. Pass min = -1 to leave the range alone.
func (ms *matchSet) choose(min, max int, score func(AbsoluteMatch) int) {
	ms.AbsoluteMatch = AbsoluteMatch{}
	maxScore := 0

	for _, m := range ms.options {
		if min >= 0 {
			if m.Start < min {
				m.Match += min - m.Start
				m.Start = min
			}
			if m.End > max {
				m.End = max
			}
			if m.End <= m.Start {
				continue
			}
		}
		if s := score(m); s > maxScore {
			ms.AbsoluteMatch = m
			maxScore = s
		}
	}
}

func (p *OverlapParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = 4
	}
	if p.Score == nil {
		p.Score = matchLength
	}
	s := start
	nextEmit := start
	matchList := p.setCache[:0]

	for s < end {
		matchList = matchList[:0]

		p.matchCache = src.Search(p.matchCache[:0], s, nextEmit, end)
		m := matchSet{options: p.matchCache}
		m.choose(-1, 0, p.Score)
		if matchLength(m.AbsoluteMatch) < minLength {
			s++
			continue
		}
		matchList = append(matchList, m)

		for {
			// Look for a new match overlapping the end of m.
			cacheLen := len(p.matchCache)
			p.matchCache = src.Search(p.matchCache, m.End-2, m.Start, end)
			next := matchSet{options: p.matchCache[cacheLen:]}
			next.choose(-1, 0, p.Score)
			if p.Score(next.AbsoluteMatch) <= p.Score(m.AbsoluteMatch) {
				break
			}
			m = next
			matchList = append(matchList, m)
		}

		// Each match in the list is longer than the one before it, and
		// overlaps it. Trim them so they don't.
		for i := len(matchList) - 2; i >= 0; i-- {
			if matchLength(matchList[i].AbsoluteMatch) > matchLength(matchList[i+1].AbsoluteMatch) {
				// The following one has already been trimmed, so trim it again
				// to make room for this one.
				if matchList[i].End > matchList[i+1].Start {
					limit := end
					if i < len(matchList)-2 {
						limit = matchList[i+2].Start
					}
					matchList[i+1].choose(matchList[i].End, limit, p.Score)
				}
				if matchLength(matchList[i+1].AbsoluteMatch) < minLength {
					matchList = append(matchList[:i+1], matchList[i+2:]...)
					if i < len(matchList)-1 {
						// Check this match against its new neighbor.
						i++
					}
				}
			} else {
				if matchList[i].End > matchList[i+1].Start {
					matchList[i].choose(nextEmit, matchList[i+1].Start, p.Score)
				}
				if matchLength(matchList[i].AbsoluteMatch) < minLength {
					matchList = append(matchList[:i], matchList[i+1:]...)
				}
			}
		}

		for _, m := range matchList {
			dst = append(dst, Match{
				Unmatched: m.Start - nextEmit,
				Length:    m.End - m.Start,
				Distance:  m.Start - m.Match,
			})
			nextEmit = m.End
		}
		s = nextEmit
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.setCache = matchList[:0]
	return dst
}
