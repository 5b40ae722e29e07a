package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.NextInt(1, 6)
		b := rng2.NextInt(1, 6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_NextInt_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.NextInt(3, 8)
		if r < 3 || r > 8 {
			t.Fatalf("roll out of range [3,8]: got %d", r)
		}
	}
}

func TestRNG_NextInt_Degenerate(t *testing.T) {
	rng := NewRNG(1)

	if r := rng.NextInt(5, 5); r != 5 {
		t.Errorf("[5,5] should always be 5, got %d", r)
	}
	if r := rng.NextInt(7, 2); r != 7 {
		t.Errorf("inverted range should return min, got %d", r)
	}
	if rng.Position() != 0 {
		t.Errorf("degenerate ranges should not draw, position = %d", rng.Position())
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.NextInt(1, 6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.NextInt(0, 99)
	rng.NextInt(0, 99)
	if rng.Position() != 3 {
		t.Fatalf("expected position 3, got %d", rng.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG and record the next 5 rolls.
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.NextInt(1, 20)
	}
	pos := rng.Position()

	var expected [5]int
	for i := range expected {
		expected[i] = rng.NextInt(1, 6)
	}

	restored := RestoreRNG(42, pos)
	if restored.Position() != pos {
		t.Fatalf("expected position %d, got %d", pos, restored.Position())
	}

	for i, want := range expected {
		got := restored.NextInt(1, 6)
		if got != want {
			t.Fatalf("roll %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.NextInt(1, 100) != rng2.NextInt(1, 100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
