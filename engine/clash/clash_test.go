package clash

import (
	"testing"

	"github.com/nathoo/clashcore/content"
	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/engine/stats"
	"github.com/nathoo/clashcore/types"
)

var even = types.Resistances{Slash: 1, Pierce: 1, Blunt: 1}

func testUnit(name string) *types.Unit {
	return &types.Unit{
		ID:            name,
		Name:          name,
		HP:            100,
		MaxHP:         100,
		Stagger:       50,
		MaxStagger:    50,
		MaxSP:         20,
		HPResist:      even,
		StaggerResist: even,
		Mods:          stats.NewModifiers(),
	}
}

func testResolver(t *testing.T, values ...int) (*Resolver, *roll.Sequence) {
	t.Helper()
	reg, err := content.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	src := roll.NewSequence(values...)
	return &Resolver{Dispatcher: events.New(reg, nil), Source: src}, src
}

func card(dice ...types.Die) *types.Card {
	return &types.Card{ID: "test", Name: "Test", Dice: dice}
}

func die(kind types.DieKind, min, max int) types.Die {
	return types.Die{Kind: kind, Min: min, Max: max}
}

func TestOneSided_StrengthAddsToRoll(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("attacker"), testUnit("defender")
	state.AddStatus(a, types.StatusStrength, 5, 0, 0)

	r.OneSided(a, b, card(die(types.Slash, 5, 5)))

	if b.HP != 90 {
		t.Errorf("defender HP = %d, want 90", b.HP)
	}
	if b.Stagger != 40 {
		t.Errorf("defender stagger = %d, want 40", b.Stagger)
	}
}

func TestRollDie_BleedHurtsOwnerAndHalves(t *testing.T) {
	r, _ := testResolver(t, 4)
	a, b := testUnit("attacker"), testUnit("defender")
	state.AddStatus(a, types.StatusBleed, 10, 0, 0)

	rc := r.RollDie(a, b, card(), die(types.Pierce, 1, 6))

	if a.HP != 90 {
		t.Errorf("attacker HP = %d, want 90", a.HP)
	}
	if got := state.GetStatus(a, types.StatusBleed); got != 5 {
		t.Errorf("bleed = %d, want 5", got)
	}
	if len(rc.Log) == 0 {
		t.Error("bleed should log to the roll trace")
	}
}

func TestRollDie_BleedIgnoresDefensiveDice(t *testing.T) {
	r, _ := testResolver(t, 4)
	a, b := testUnit("attacker"), testUnit("defender")
	state.AddStatus(a, types.StatusBleed, 10, 0, 0)

	r.RollDie(a, b, card(), die(types.Block, 1, 6))

	if a.HP != 100 || state.GetStatus(a, types.StatusBleed) != 10 {
		t.Errorf("HP = %d bleed = %d, want 100 and 10", a.HP, state.GetStatus(a, types.StatusBleed))
	}
}

func TestRollDie_PowerByKind(t *testing.T) {
	tests := []struct {
		kind types.DieKind
		want int
	}{
		{types.Slash, 5},
		{types.Blunt, 5},
		{types.Block, 4},
		{types.Evade, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r, _ := testResolver(t)
			a, b := testUnit("a"), testUnit("b")
			a.Mods[types.ModPowerAttack] = 2
			a.Mods[types.ModPowerMediumWeapon] = 1
			a.Mods[types.ModPowerBlock] = 2
			a.Mods[types.ModPowerEvade] = 1

			rc := r.RollDie(a, b, card(), die(tt.kind, 2, 2))
			if rc.Final() != tt.want {
				t.Errorf("value = %d, want %d", rc.Final(), tt.want)
			}
		})
	}
}

func TestRollDie_ParalysisKeepsLower(t *testing.T) {
	r, src := testResolver(t, 8, 3)
	a, b := testUnit("a"), testUnit("b")
	state.AddStatus(a, types.StatusParalysis, 1, 0, 0)

	rc := r.RollDie(a, b, card(), die(types.Slash, 1, 10))

	if rc.Raw != 3 {
		t.Errorf("raw = %d, want 3", rc.Raw)
	}
	if src.Drawn() != 2 {
		t.Errorf("drew %d values, want 2", src.Drawn())
	}
}

func TestClash_AttackBeatsAttack(t *testing.T) {
	r, _ := testResolver(t, 10, 2)
	a, b := testUnit("a"), testUnit("b")

	r.Clash(a, b, card(die(types.Slash, 1, 10)), card(die(types.Slash, 1, 10)))

	if b.HP != 90 {
		t.Errorf("loser HP = %d, want 90 (full roll value)", b.HP)
	}
	if a.HP != 100 {
		t.Errorf("winner HP = %d, want 100", a.HP)
	}
}

func TestClash_Matrix(t *testing.T) {
	tests := []struct {
		name               string
		win, lose          types.DieKind
		loserHP, loserStag int
	}{
		{"offensive beats evade", types.Pierce, types.Evade, 91, 41},
		{"offensive beats block", types.Blunt, types.Block, 95, 45},
		{"block beats offensive", types.Block, types.Slash, 100, 45},
		{"block beats block", types.Block, types.Block, 100, 45},
		{"evade beats offensive", types.Evade, types.Slash, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testResolver(t, 9, 4)
			a, b := testUnit("a"), testUnit("b")

			r.Clash(a, b, card(die(tt.win, 1, 10)), card(die(tt.lose, 1, 10)))

			if b.HP != tt.loserHP || b.Stagger != tt.loserStag {
				t.Errorf("loser HP/stagger = %d/%d, want %d/%d", b.HP, b.Stagger, tt.loserHP, tt.loserStag)
			}
			if a.HP != 100 || a.Stagger != 50 {
				t.Errorf("winner HP/stagger = %d/%d, want 100/50", a.HP, a.Stagger)
			}
		})
	}
}

func TestClash_Draw(t *testing.T) {
	r, _ := testResolver(t, 6, 6)
	a, b := testUnit("a"), testUnit("b")

	log := r.Clash(a, b, card(die(types.Slash, 1, 10)), card(die(types.Slash, 1, 10)))

	if a.HP != 100 || b.HP != 100 {
		t.Errorf("HP = %d/%d, want no damage on a draw", a.HP, b.HP)
	}
	if len(log) == 0 {
		t.Error("draw should be logged")
	}
}

func TestClash_BlockUsesHPResistForStagger(t *testing.T) {
	r, _ := testResolver(t, 9, 4)
	a, b := testUnit("a"), testUnit("b")
	b.HPResist.Blunt = 2
	b.StaggerResist.Blunt = 0.5

	r.Clash(a, b, card(die(types.Block, 1, 10)), card(die(types.Slash, 1, 10)))

	// margin 5 through the HP table for blunt (block)
	if b.Stagger != 40 {
		t.Errorf("stagger = %d, want 40", b.Stagger)
	}
	if b.HP != 100 {
		t.Errorf("HP = %d, want 100", b.HP)
	}
}

func TestClash_UnevenDiceResolveUnopposed(t *testing.T) {
	r, src := testResolver(t, 5, 3, 4)
	a, b := testUnit("a"), testUnit("b")

	ca := card(die(types.Slash, 1, 10), die(types.Slash, 1, 10))
	cb := card(die(types.Evade, 1, 10))
	r.Clash(a, b, ca, cb)

	// die 0 clashes (offensive over evade deals the full 5), die 1 is an
	// unopposed 4.
	if b.HP != 91 {
		t.Errorf("b HP = %d, want 91", b.HP)
	}
	if src.Drawn() != 3 {
		t.Errorf("drew %d values, want 3", src.Drawn())
	}
}

func TestClash_StaggerMidClash(t *testing.T) {
	r, src := testResolver(t, 10, 2)
	a, b := testUnit("a"), testUnit("b")
	b.Stagger = 5

	ca := card(die(types.Slash, 1, 10), die(types.Slash, 3, 3))
	cb := card(die(types.Slash, 1, 10), die(types.Slash, 1, 10))
	r.Clash(a, b, ca, cb)

	if !state.IsStaggered(b) {
		t.Fatal("b should be staggered by the first die")
	}
	// 10 from the clash, then 3 unopposed at doubled resistance.
	if b.HP != 84 {
		t.Errorf("b HP = %d, want 84", b.HP)
	}
	if src.Drawn() != 2 {
		t.Errorf("drew %d values, want 2 (b's second die is lost)", src.Drawn())
	}
}

func TestOneSided_AlreadyStaggered(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	b.Stagger = 0
	b.HPResist = types.Resistances{Slash: 0.5, Pierce: 0.5, Blunt: 0.5}

	r.OneSided(a, b, card(die(types.Slash, 8, 8)))

	// 0.5 doubled by the stagger break is an effective 1.0.
	if b.HP != 92 {
		t.Errorf("HP = %d, want 92", b.HP)
	}
	if b.Stagger != 0 {
		t.Errorf("stagger = %d, want 0", b.Stagger)
	}
}

func TestOneSided_AlreadyStaggeredEvenResist(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	b.Stagger = 0

	r.OneSided(a, b, card(die(types.Slash, 8, 8)))

	// Resistance 1.0 doubles to 2.0 while staggered.
	if b.HP != 84 {
		t.Errorf("HP = %d, want 84", b.HP)
	}
	if b.Stagger != 0 {
		t.Errorf("stagger = %d, want 0", b.Stagger)
	}
}

func TestApplyDamage_NoStaggerLegWhenStaggered(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	b.Stagger = 0
	b.MaxStagger = 50

	rc := roll.New(a, b, card(), die(types.Slash, 8, 8), 8)
	d := r.ApplyDamage(rc, b, 8, false)

	if d.Stagger != 0 || d.Broke {
		t.Errorf("damage = %+v, want no stagger leg", d)
	}
	if d.HP != 16 {
		t.Errorf("HP damage = %d, want 16 at doubled resistance", d.HP)
	}
}

func TestOneSided_DefensiveDiceDoNothing(t *testing.T) {
	r, src := testResolver(t, 5, 5)
	a, b := testUnit("a"), testUnit("b")

	r.OneSided(a, b, card(die(types.Block, 1, 10), die(types.Evade, 1, 10)))

	if b.HP != 100 || b.Stagger != 50 {
		t.Errorf("b HP/stagger = %d/%d, want untouched", b.HP, b.Stagger)
	}
	if src.Drawn() != 0 {
		t.Errorf("drew %d values, want 0", src.Drawn())
	}
}

func TestApplyDamage_FlatBonuses(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	state.AddStatus(a, types.StatusDmgUp, 3, 0, 0)
	state.AddStatus(a, types.StatusDmgDown, 1, 0, 0)
	state.AddStatus(b, types.StatusFragile, 2, 0, 0)
	state.AddStatus(b, types.StatusProtection, 1, 0, 0)
	a.Mods[types.ModDamageDeal] = 2
	b.Mods[types.ModDamageTake] = 1

	r.OneSided(a, b, card(die(types.Slash, 5, 5)))

	// 5 + (3-1) + (2-1) + 2 - 1
	if b.HP != 91 {
		t.Errorf("HP = %d, want 91", b.HP)
	}
}

func TestApplyDamage_FloorsAtZero(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	state.AddStatus(b, types.StatusProtection, 10, 0, 0)

	r.OneSided(a, b, card(die(types.Slash, 3, 3)))

	if b.HP != 100 || b.Stagger != 50 {
		t.Errorf("HP/stagger = %d/%d, want untouched", b.HP, b.Stagger)
	}
}

func TestApplyDamage_Barrier(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	state.AddStatus(b, types.StatusBarrier, 4, 0, 0)

	r.OneSided(a, b, card(die(types.Slash, 6, 6)))

	if b.HP != 98 {
		t.Errorf("HP = %d, want 98", b.HP)
	}
	if got := state.GetStatus(b, types.StatusBarrier); got != 0 {
		t.Errorf("barrier = %d, want 0", got)
	}
	if b.Stagger != 44 {
		t.Errorf("stagger = %d, want 44 (barrier does not absorb stagger)", b.Stagger)
	}
}

func TestApplyDamage_RedLycorisImmune(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	a.Passives = []string{"serrated_edge"}
	state.AddStatus(b, types.StatusRedLycoris, 1, 0, 0)
	state.AddStatus(b, types.StatusFragile, 5, 0, 0)

	r.OneSided(a, b, card(die(types.Slash, 9, 9)))

	if b.HP != 100 || b.Stagger != 50 {
		t.Errorf("HP/stagger = %d/%d, want untouched", b.HP, b.Stagger)
	}
	if state.GetStatus(b, types.StatusBleed) != 0 {
		t.Error("on_hit should not fire against an immune defender")
	}
}

func TestCrit_ScalesDamage(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	d := die(types.Slash, 5, 5)
	d.Scripts = map[string][]types.ScriptEntry{
		types.HookRoll: {{Effect: content.ScriptCrit, Params: map[string]any{"multiplier": 2.0}}},
	}

	r.OneSided(a, b, card(d))

	if b.HP != 90 {
		t.Errorf("HP = %d, want 90", b.HP)
	}
	// Stagger takes the unmultiplied 5.
	if b.Stagger != 45 {
		t.Errorf("stagger = %d, want 45", b.Stagger)
	}
}

func TestOnHit_PassiveInflicts(t *testing.T) {
	r, _ := testResolver(t)
	a, b := testUnit("a"), testUnit("b")
	a.Passives = []string{"serrated_edge"}

	r.OneSided(a, b, card(die(types.Slash, 2, 2), die(types.Slash, 2, 2)))

	if got := state.GetStatus(b, types.StatusBleed); got != 2 {
		t.Errorf("bleed = %d, want 2", got)
	}
}

func TestClash_StopsWhenDead(t *testing.T) {
	r, src := testResolver(t, 10, 1)
	a, b := testUnit("a"), testUnit("b")
	b.HP = 5

	r.Clash(a, b, card(die(types.Slash, 1, 10), die(types.Slash, 1, 10)), card(die(types.Slash, 1, 10), die(types.Slash, 1, 10)))

	if !state.IsDead(b) {
		t.Fatal("b should be dead")
	}
	if src.Drawn() != 2 {
		t.Errorf("drew %d values, want 2", src.Drawn())
	}
}
