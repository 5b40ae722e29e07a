package content

import (
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// marker is a status with no hooks of its own. Initiative and the damage
// resolver read its stack directly.
type marker struct{ hooks.Base }

// rollBonus adds the stack to rolls of the kinds it matches.
type rollBonus struct {
	hooks.Base
	name  string
	match func(types.DieKind) bool
}

func (s rollBonus) OnRoll(h *hooks.Hook) {
	if h.Roll == nil || !s.match(h.Roll.Die.Kind) {
		return
	}
	h.Roll.Add(h.Stack, s.name)
}

// bleed hurts its owner on every offensive roll, then halves.
type bleed struct{ hooks.Base }

func (bleed) OnRoll(h *hooks.Hook) {
	if h.Roll == nil || !state.IsOffensive(h.Roll.Die.Kind) || h.Stack <= 0 {
		return
	}
	lost := state.LoseHP(h.Owner, h.Stack)
	state.ReduceStatus(h.Owner, types.StatusBleed, h.Stack-h.Stack/2)
	h.Logf("bleed: %s loses %d HP, bleed %d → %d", h.Owner.Name, lost, h.Stack, h.Stack/2)
}

// burn deals its stack at turn end and loses a third of it, at least one.
type burn struct{ hooks.Base }

func (burn) OnTurnEnd(h *hooks.Hook) {
	if h.Stack <= 0 {
		return
	}
	lost := state.LoseHP(h.Owner, h.Stack)
	decay := h.Stack / 3
	if decay < 1 {
		decay = 1
	}
	state.ReduceStatus(h.Owner, types.StatusBurn, decay)
	h.Logf("burn: %s loses %d HP, burn %d → %d", h.Owner.Name, lost, h.Stack, h.Stack-decay)
}

// smoke raises damage dealt and taken by its stack.
type smoke struct{ hooks.Base }

func (smoke) OnCalculateStats(_ *types.Unit, stack int) map[string]int {
	return map[string]int{"damage_dealt": stack, "damage_taken": stack}
}

func statuses() map[types.StatusID]hooks.Behavior {
	return map[types.StatusID]hooks.Behavior{
		types.StatusStrength:      rollBonus{name: "strength", match: state.IsOffensive},
		types.StatusEndurance:     rollBonus{name: "endurance", match: isBlock},
		types.StatusHaste:         marker{},
		types.StatusSlow:          marker{},
		types.StatusBind:          marker{},
		types.StatusBleed:         bleed{},
		types.StatusBurn:          burn{},
		types.StatusBarrier:       marker{},
		types.StatusRedLycoris:    marker{},
		types.StatusFragile:       marker{},
		types.StatusVulnerability: marker{},
		types.StatusProtection:    marker{},
		types.StatusDmgUp:         marker{},
		types.StatusDmgDown:       marker{},
		types.StatusParalysis:     marker{},
		types.StatusSmoke:         smoke{},
		types.StatusRage:          marker{},
	}
}

func isBlock(k types.DieKind) bool { return k == types.Block }
