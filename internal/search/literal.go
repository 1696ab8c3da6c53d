package search

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// literalScanner runs the compiled automaton over text that arrives in
// arbitrary pieces (reader buffers, rope chunks) and reports matches with
// absolute byte offsets. The automaton reports every occurrence, including
// overlapping ones; the scanner keeps only the leftmost non-overlapping
// subsequence by skipping any match that starts before the last emitted end.
// Between feeds it retains a carry of up to patternLen-1 trailing bytes so a
// match straddling a piece boundary is found exactly once: the carry never
// starts before the last emitted end, so no emitted match can be
// re-discovered, and it is long enough that no boundary-spanning match can
// be missed.
type literalScanner struct {
	automaton  ahocorasick.AhoCorasick
	patternLen int
	window     []byte
	base       int // absolute offset of window[0]
	emittedEnd int // absolute offset one past the last emitted match
}

func newLiteralScanner(automaton ahocorasick.AhoCorasick, patternLen int) *literalScanner {
	return &literalScanner{automaton: automaton, patternLen: patternLen}
}

// feed appends piece to the scan window and emits every newly completed
// match. emit receives absolute [start, end) offsets and returns false to
// stop the scan early; feed then returns false as well.
func (s *literalScanner) feed(piece []byte, emit func(start, end int) bool) bool {
	if s.patternLen == 0 || len(piece) == 0 {
		return true
	}
	s.window = append(s.window, piece...)

	for _, m := range s.automaton.FindAll(string(s.window)) {
		start, end := s.base+m.Start(), s.base+m.End()
		if start < s.emittedEnd {
			continue
		}
		s.emittedEnd = end
		if !emit(start, end) {
			return false
		}
	}

	carryStart := len(s.window) - (s.patternLen - 1)
	if s.base+carryStart < s.emittedEnd {
		carryStart = s.emittedEnd - s.base
	}
	if carryStart < 0 {
		carryStart = 0
	}
	s.window = append(s.window[:0], s.window[carryStart:]...)
	s.base += carryStart
	return true
}
