package roll

// Source draws bounded random integers. Both bounds are inclusive.
type Source interface {
	NextInt(min, max int) int
}

// Sequence is a Source that replays fixed values in order, clamped to the
// requested range. Like RNG it consumes nothing for a single-value range.
// Once exhausted it returns min.
type Sequence struct {
	Values []int
	pos    int
}

// NewSequence returns a Sequence over vs.
func NewSequence(vs ...int) *Sequence {
	return &Sequence{Values: vs}
}

// NextInt returns the next scripted value within [min, max].
func (s *Sequence) NextInt(min, max int) int {
	if max <= min || s.pos >= len(s.Values) {
		return min
	}
	v := s.Values[s.pos]
	s.pos++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int { return s.pos }
