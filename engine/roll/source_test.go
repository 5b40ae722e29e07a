package roll

import "testing"

func TestSequence_ReplaysAndClamps(t *testing.T) {
	s := NewSequence(3, 99, -4)

	if got := s.NextInt(1, 6); got != 3 {
		t.Errorf("first = %d, want 3", got)
	}
	if got := s.NextInt(1, 6); got != 6 {
		t.Errorf("second = %d, want 6 (clamped)", got)
	}
	if got := s.NextInt(1, 6); got != 1 {
		t.Errorf("third = %d, want 1 (clamped)", got)
	}
	if got := s.NextInt(4, 4); got != 4 {
		t.Errorf("fixed range = %d, want 4", got)
	}
	if got := s.NextInt(2, 6); got != 2 {
		t.Errorf("exhausted = %d, want min 2", got)
	}
	if s.Drawn() != 3 {
		t.Errorf("Drawn = %d, want 3", s.Drawn())
	}
}
