// Package state owns every mutation point of a unit's runtime state.
// Resource writes clamp instead of failing, so combat never halts on
// numeric drift.
package state

import (
	"github.com/google/uuid"

	"github.com/nathoo/clashcore/types"
)

// Spawn creates a runtime unit from a template. Cards are deep-copied from
// the given card table; unknown deck entries are skipped. Resources are left
// at zero until the stat engine primes them.
func Spawn(def types.UnitDef, cards map[string]types.Card) *types.Unit {
	u := &types.Unit{
		ID:            uuid.NewString(),
		DefID:         def.ID,
		Name:          def.Name,
		Level:         def.Level,
		BaseHP:        def.HP,
		BaseSP:        def.SP,
		HPRolls:       append([]int(nil), def.HPRolls...),
		SPRolls:       append([]int(nil), def.SPRolls...),
		Attributes:    copyIntMap(def.Attributes),
		Skills:        copyIntMap(def.Skills),
		BaseSpeed:     def.BaseSpeed,
		HPResist:      def.HPResist,
		StaggerResist: def.StaggerResist,
		Passives:      append([]string(nil), def.Passives...),
		Talents:       append([]string(nil), def.Talents...),
		Cooldowns:     map[string]int{},
		Buffs:         map[string]int{},
	}
	if u.Name == "" {
		u.Name = def.ID
	}
	for _, id := range def.Deck {
		if c, ok := cards[id]; ok {
			u.Deck = append(u.Deck, CloneCard(c))
		}
	}
	return u
}

// CloneCard returns a deep copy of a card template.
func CloneCard(c types.Card) types.Card {
	out := c
	out.Dice = make([]types.Die, len(c.Dice))
	for i, d := range c.Dice {
		out.Dice[i] = d
		out.Dice[i].Scripts = cloneScripts(d.Scripts)
	}
	out.Scripts = cloneScripts(c.Scripts)
	return out
}

func cloneScripts(in map[string][]types.ScriptEntry) map[string][]types.ScriptEntry {
	if in == nil {
		return nil
	}
	out := make(map[string][]types.ScriptEntry, len(in))
	for hook, entries := range in {
		cp := make([]types.ScriptEntry, len(entries))
		for i, e := range entries {
			cp[i] = e
			if e.Params != nil {
				cp[i].Params = make(map[string]any, len(e.Params))
				for k, v := range e.Params {
					cp[i].Params[k] = v
				}
			}
		}
		out[hook] = cp
	}
	return out
}

func copyIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// FindCard returns the unit's deck card with the given ID.
func FindCard(u *types.Unit, cardID string) (*types.Card, bool) {
	for i := range u.Deck {
		if u.Deck[i].ID == cardID {
			return &u.Deck[i], true
		}
	}
	return nil, false
}

// IsOffensive reports whether a die kind deals damage.
func IsOffensive(kind types.DieKind) bool {
	switch kind {
	case types.Slash, types.Pierce, types.Blunt:
		return true
	}
	return false
}

// ResistFor returns the multiplier for a die kind. Block dice strike as
// blunt force; evade dice have no entry and resolve at 1.0.
func ResistFor(r types.Resistances, kind types.DieKind) float64 {
	switch kind {
	case types.Slash:
		return r.Slash
	case types.Pierce:
		return r.Pierce
	case types.Blunt, types.Block:
		return r.Blunt
	}
	return 1.0
}

// IsDead reports whether the unit has no HP left.
func IsDead(u *types.Unit) bool {
	return u.HP <= 0
}

// IsStaggered reports whether the unit's stagger gauge is broken.
func IsStaggered(u *types.Unit) bool {
	return u.Stagger <= 0
}

// SetHP sets HP, clamped to [0, MaxHP].
func SetHP(u *types.Unit, hp int) {
	u.HP = clamp(hp, 0, u.MaxHP)
}

// LoseHP removes HP and returns the amount actually removed.
func LoseHP(u *types.Unit, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := u.HP
	SetHP(u, u.HP-amount)
	return before - u.HP
}

// Heal restores HP and returns the amount actually restored.
func Heal(u *types.Unit, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := u.HP
	SetHP(u, u.HP+amount)
	return u.HP - before
}

// SetStagger sets the stagger gauge, clamped to [0, MaxStagger].
func SetStagger(u *types.Unit, v int) {
	u.Stagger = clamp(v, 0, u.MaxStagger)
}

// LoseStagger removes stagger and returns the amount actually removed.
func LoseStagger(u *types.Unit, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := u.Stagger
	SetStagger(u, u.Stagger-amount)
	return before - u.Stagger
}

// RecoverStagger restores stagger and returns the amount actually restored.
func RecoverStagger(u *types.Unit, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := u.Stagger
	SetStagger(u, u.Stagger+amount)
	return u.Stagger - before
}

// AdjustSP changes sanity, clamped to [-MaxSP, MaxSP].
func AdjustSP(u *types.Unit, delta int) {
	u.SP = clamp(u.SP+delta, -u.MaxSP, u.MaxSP)
}

// ClampResources pulls every current resource into its legal range.
func ClampResources(u *types.Unit) {
	SetHP(u, u.HP)
	SetStagger(u, u.Stagger)
	AdjustSP(u, 0)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
