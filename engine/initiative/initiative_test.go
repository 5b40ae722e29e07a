package initiative

import (
	"testing"

	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

var slash = types.Card{ID: "slash", Name: "Slash", Dice: []types.Die{{Kind: types.Slash, Min: 2, Max: 5}}}

func testUnit(name string) *types.Unit {
	return &types.Unit{
		ID:         name,
		Name:       name,
		HP:         50,
		MaxHP:      50,
		Stagger:    20,
		MaxStagger: 20,
		SpeedDice:  []types.DiceRange{{Min: 1, Max: 6}, {Min: 1, Max: 6}},
	}
}

// slots builds playable slots from (speed, target, aggro) triples.
func slots(specs ...[3]int) []types.Slot {
	out := make([]types.Slot, len(specs))
	for i, s := range specs {
		card := slash
		out[i] = types.Slot{Speed: s[0], Target: s[1], Aggro: s[2] == 1, Card: &card}
	}
	return out
}

func TestRoll_AppliesSpeedStatuses(t *testing.T) {
	u := testUnit("a")
	state.AddStatus(u, types.StatusHaste, 3, 0, 0)
	state.AddStatus(u, types.StatusSlow, 1, 0, 0)

	log := Roll(u, roll.NewSequence(4, 2))

	if len(u.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(u.Slots))
	}
	if u.Slots[0].Speed != 6 || u.Slots[1].Speed != 4 {
		t.Errorf("speeds = %d, %d, want 6, 4", u.Slots[0].Speed, u.Slots[1].Speed)
	}
	if u.Slots[0].Target != -1 {
		t.Errorf("target = %d, want -1 before assignment", u.Slots[0].Target)
	}
	if len(log) != 2 {
		t.Errorf("log = %v", log)
	}
}

func TestRoll_FloorsAtOne(t *testing.T) {
	u := testUnit("a")
	state.AddStatus(u, types.StatusBind, 5, 0, 0)

	Roll(u, roll.NewSequence(2, 3))

	for i, s := range u.Slots {
		if s.Speed != 1 {
			t.Errorf("slot %d speed = %d, want 1", i, s.Speed)
		}
	}
}

func TestRoll_Staggered(t *testing.T) {
	u := testUnit("a")
	u.Stagger = 0
	src := roll.NewSequence(6, 6)

	Roll(u, src)

	if len(u.Slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(u.Slots))
	}
	s := u.Slots[0]
	if !s.Stunned || s.Speed != 0 || s.Target != -1 {
		t.Errorf("slot = %+v, want stunned at speed 0", s)
	}
	if s.Card == nil || len(s.Card.Dice) != 0 {
		t.Errorf("stunned slot card = %+v, want empty stand-in", s.Card)
	}
	if Playable(s) {
		t.Error("stunned slot should not be playable")
	}
	if src.Drawn() != 0 {
		t.Errorf("staggered roll drew %d values, want 0", src.Drawn())
	}
}

func TestRoll_RageAddsSlot(t *testing.T) {
	u := testUnit("a")
	u.SpeedDice = []types.DiceRange{{Min: 3, Max: 7}}
	state.AddStatus(u, types.StatusRage, 1, 0, 0)

	Roll(u, roll.NewSequence(4, 5))

	if len(u.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(u.Slots))
	}
	if u.Slots[1].Range != u.SpeedDice[0] {
		t.Errorf("bonus range = %v, want %v", u.Slots[1].Range, u.SpeedDice[0])
	}
}

func TestRoll_ExtraActionWithoutDice(t *testing.T) {
	u := testUnit("a")
	u.SpeedDice = nil
	u.BaseSpeed = types.DiceRange{Min: 2, Max: 3}
	state.AddBuff(u, BuffExtraAction, 1)

	Roll(u, roll.NewSequence(3))

	if len(u.Slots) != 1 || u.Slots[0].Range != u.BaseSpeed {
		t.Errorf("slots = %+v, want one slot on base range", u.Slots)
	}
}

func TestIntercepts(t *testing.T) {
	tests := []struct {
		name     string
		attacker []types.Slot
		defender []types.Slot
		want     map[int]int
	}{
		{
			name:     "faster attacker intercepts",
			attacker: slots([3]int{5, 0, 0}),
			defender: slots([3]int{3, 0, 0}),
			want:     map[int]int{0: 0},
		},
		{
			name:     "equal speed is not faster",
			attacker: slots([3]int{3, 0, 0}),
			defender: slots([3]int{3, 0, 0}),
			want:     map[int]int{},
		},
		{
			name:     "slowest candidate wins",
			attacker: slots([3]int{9, 0, 0}, [3]int{4, 0, 0}, [3]int{6, 0, 0}),
			defender: slots([3]int{2, 1, 0}),
			want:     map[int]int{0: 1},
		},
		{
			name:     "aggro beats slower",
			attacker: slots([3]int{4, 0, 0}, [3]int{9, 0, 1}),
			defender: slots([3]int{2, 0, 0}),
			want:     map[int]int{0: 1},
		},
		{
			name:     "slowest among aggro",
			attacker: slots([3]int{9, 0, 1}, [3]int{3, 0, 0}, [3]int{7, 0, 1}),
			defender: slots([3]int{2, 0, 0}),
			want:     map[int]int{0: 2},
		},
		{
			name:     "speed tie keeps lower index",
			attacker: slots([3]int{5, 0, 0}, [3]int{5, 0, 0}),
			defender: slots([3]int{2, 1, 0}),
			want:     map[int]int{0: 0},
		},
		{
			name:     "invalid target ignored",
			attacker: slots([3]int{5, 3, 0}, [3]int{5, -1, 0}),
			defender: slots([3]int{2, 0, 0}),
			want:     map[int]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intercepts(tt.attacker, tt.defender)
			if len(got) != len(tt.want) {
				t.Fatalf("Intercepts = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("defender slot %d → %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func TestComputeRedirections_Symmetric(t *testing.T) {
	build := func() (*types.Unit, *types.Unit) {
		a, b := testUnit("a"), testUnit("b")
		// a0 (speed 6) targets b1, a1 (speed 2) targets b0, both b slots target a1.
		a.Slots = slots([3]int{6, 1, 0}, [3]int{2, 0, 0})
		b.Slots = slots([3]int{8, 1, 0}, [3]int{3, 1, 0})
		return a, b
	}

	a, b := build()
	ComputeRedirections(a, b)
	a3, b3 := build()
	ComputeRedirections(b3, a3)

	// b1 is intercepted by a0. a1 has two faster attackers and faces b1,
	// the slower one.
	if b.Slots[1].Target != 0 {
		t.Errorf("b1 target = %d, want 0", b.Slots[1].Target)
	}
	if a.Slots[1].Target != 1 {
		t.Errorf("a1 target = %d, want 1", a.Slots[1].Target)
	}
	for i := range a.Slots {
		if a.Slots[i].Target != a3.Slots[i].Target {
			t.Errorf("a%d target depends on argument order: %d vs %d", i, a.Slots[i].Target, a3.Slots[i].Target)
		}
	}
	for i := range b.Slots {
		if b.Slots[i].Target != b3.Slots[i].Target {
			t.Errorf("b%d target depends on argument order: %d vs %d", i, b.Slots[i].Target, b3.Slots[i].Target)
		}
	}
}

func TestBuildActions_OrderAndTiebreak(t *testing.T) {
	a, b := testUnit("a"), testUnit("b")
	a.Slots = slots([3]int{5, 0, 0}, [3]int{3, 0, 0})
	b.Slots = slots([3]int{5, 0, 0})
	stunned := StunnedCard
	b.Slots = append(b.Slots, types.Slot{Card: &stunned, Stunned: true, Target: -1})

	// Tiebreakers: a0 .10, a1 .90, b0 .50
	actions := BuildActions(a, b, roll.NewSequence(10, 90, 50))

	if len(actions) != 3 {
		t.Fatalf("actions = %d, want 3 (stunned slot excluded)", len(actions))
	}
	want := []SlotRef{{Right, 0}, {Left, 0}, {Left, 1}}
	for i, w := range want {
		got := SlotRef{actions[i].Side, actions[i].Slot}
		if got != w {
			t.Errorf("action %d = %+v, want %+v", i, got, w)
		}
	}
	if actions[0].Score != 5.5 {
		t.Errorf("score = %v, want 5.5", actions[0].Score)
	}
}

func TestBuildActions_Reproducible(t *testing.T) {
	run := func() []Action {
		a, b := testUnit("a"), testUnit("b")
		a.Slots = slots([3]int{4, 0, 0}, [3]int{4, 0, 0})
		b.Slots = slots([3]int{4, 0, 0}, [3]int{4, 1, 0})
		return BuildActions(a, b, roll.NewSequence(33, 33, 72, 5))
	}
	x, y := run(), run()
	for i := range x {
		if x[i] != y[i] {
			t.Errorf("action %d differs: %+v vs %+v", i, x[i], y[i])
		}
	}
}
