package state

import (
	"testing"

	"github.com/nathoo/clashcore/types"
)

func testUnit() *types.Unit {
	return &types.Unit{
		Name:       "Tester",
		HP:         50,
		MaxHP:      100,
		SP:         0,
		MaxSP:      20,
		Stagger:    30,
		MaxStagger: 50,
	}
}

func testCards() map[string]types.Card {
	return map[string]types.Card{
		"slash": {
			ID:   "slash",
			Name: "Slash",
			Dice: []types.Die{
				{Kind: types.Slash, Min: 3, Max: 7, Scripts: map[string][]types.ScriptEntry{
					types.HookHit: {{Effect: "inflict", Params: map[string]any{"status": "bleed", "amount": 2}}},
				}},
			},
		},
	}
}

func TestSpawn_CopiesTemplate(t *testing.T) {
	def := types.UnitDef{
		ID:         "roland",
		Name:       "Roland",
		HP:         40,
		Attributes: map[string]int{"strength": 5},
		Deck:       []string{"slash", "missing"},
	}
	u := Spawn(def, testCards())

	if u.ID == "" {
		t.Error("expected a generated instance ID")
	}
	if u.DefID != "roland" || u.Name != "Roland" {
		t.Errorf("identity = %q/%q", u.DefID, u.Name)
	}
	if len(u.Deck) != 1 {
		t.Fatalf("expected 1 card (missing skipped), got %d", len(u.Deck))
	}

	// Mutating the spawned copy must not touch the template.
	u.Attributes["strength"] = 99
	if def.Attributes["strength"] != 5 {
		t.Error("template attributes were mutated")
	}
	u.Deck[0].Dice[0].Scripts[types.HookHit][0].Params["amount"] = 9
	if testCards()["slash"].Dice[0].Scripts[types.HookHit][0].Params["amount"] != 2 {
		t.Error("template card was mutated")
	}
}

func TestSpawn_DefaultsNameToID(t *testing.T) {
	u := Spawn(types.UnitDef{ID: "goblin"}, nil)
	if u.Name != "goblin" {
		t.Errorf("Name = %q, want goblin", u.Name)
	}
}

func TestCloneCard_Independent(t *testing.T) {
	orig := testCards()["slash"]
	cp := CloneCard(orig)
	cp.Dice[0].Max = 100
	if orig.Dice[0].Max != 7 {
		t.Error("clone shares dice with original")
	}
}

func TestSetHP_Clamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{60, 60},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		u := testUnit()
		SetHP(u, tt.in)
		if u.HP != tt.want {
			t.Errorf("SetHP(%d) = %d, want %d", tt.in, u.HP, tt.want)
		}
	}
}

func TestLoseHP_ReturnsActual(t *testing.T) {
	u := testUnit()
	if got := LoseHP(u, 80); got != 50 {
		t.Errorf("LoseHP = %d, want 50", got)
	}
	if !IsDead(u) {
		t.Error("expected unit to be dead")
	}
	if got := LoseHP(u, -3); got != 0 {
		t.Errorf("negative LoseHP = %d, want 0", got)
	}
}

func TestHeal_CapsAtMax(t *testing.T) {
	u := testUnit()
	if got := Heal(u, 70); got != 50 {
		t.Errorf("Heal = %d, want 50", got)
	}
	if u.HP != 100 {
		t.Errorf("HP = %d, want 100", u.HP)
	}
}

func TestStagger_BreakAndRecover(t *testing.T) {
	u := testUnit()
	if got := LoseStagger(u, 45); got != 30 {
		t.Errorf("LoseStagger = %d, want 30", got)
	}
	if !IsStaggered(u) {
		t.Error("expected unit to be staggered")
	}
	RecoverStagger(u, 500)
	if u.Stagger != 50 {
		t.Errorf("Stagger = %d, want 50", u.Stagger)
	}
}

func TestAdjustSP_SymmetricRange(t *testing.T) {
	u := testUnit()
	AdjustSP(u, -45)
	if u.SP != -20 {
		t.Errorf("SP = %d, want -20", u.SP)
	}
	AdjustSP(u, 100)
	if u.SP != 20 {
		t.Errorf("SP = %d, want 20", u.SP)
	}
}

func TestClampResources(t *testing.T) {
	u := &types.Unit{HP: 500, MaxHP: 80, SP: -90, MaxSP: 15, Stagger: 99, MaxStagger: 40}
	ClampResources(u)
	if u.HP != 80 || u.SP != -15 || u.Stagger != 40 {
		t.Errorf("got HP=%d SP=%d Stagger=%d", u.HP, u.SP, u.Stagger)
	}
}

func TestResistFor(t *testing.T) {
	r := types.Resistances{Slash: 2.0, Pierce: 0.5, Blunt: 1.5}
	tests := []struct {
		kind types.DieKind
		want float64
	}{
		{types.Slash, 2.0},
		{types.Pierce, 0.5},
		{types.Blunt, 1.5},
		{types.Block, 1.5},
		{types.Evade, 1.0},
	}
	for _, tt := range tests {
		if got := ResistFor(r, tt.kind); got != tt.want {
			t.Errorf("ResistFor(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestIsOffensive(t *testing.T) {
	for _, k := range []types.DieKind{types.Slash, types.Pierce, types.Blunt} {
		if !IsOffensive(k) {
			t.Errorf("%s should be offensive", k)
		}
	}
	for _, k := range []types.DieKind{types.Block, types.Evade} {
		if IsOffensive(k) {
			t.Errorf("%s should not be offensive", k)
		}
	}
}

func TestFindCard(t *testing.T) {
	u := Spawn(types.UnitDef{ID: "x", Deck: []string{"slash"}}, testCards())
	if c, ok := FindCard(u, "slash"); !ok || c.Name != "Slash" {
		t.Errorf("FindCard(slash) = %v, %v", c, ok)
	}
	if _, ok := FindCard(u, "nope"); ok {
		t.Error("expected missing card")
	}
}

func TestBuffsAndCooldowns_Tick(t *testing.T) {
	u := testUnit()
	AddBuff(u, "rage", 2)
	AddBuff(u, "rage", 1) // shorter duration does not overwrite
	SetCooldown(u, "slash", 1)

	if !HasBuff(u, "rage") || !OnCooldown(u, "slash") {
		t.Fatal("expected buff and cooldown set")
	}

	log := TickCounters(u)
	if !HasBuff(u, "rage") {
		t.Error("rage should last two turns")
	}
	if OnCooldown(u, "slash") {
		t.Error("slash cooldown should have expired")
	}
	if len(log) != 1 {
		t.Errorf("expected 1 log line, got %v", log)
	}

	TickCounters(u)
	if HasBuff(u, "rage") {
		t.Error("rage should have expired")
	}
}

func TestClearBuffs(t *testing.T) {
	u := testUnit()
	AddBuff(u, "rage", 3)
	ClearBuffs(u)
	if HasBuff(u, "rage") {
		t.Error("expected buffs cleared")
	}
}
