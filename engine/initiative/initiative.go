// Package initiative rolls speed dice into slots, redirects targets so the
// slowest interceptor is dragged into a clash, and orders the turn's actions.
package initiative

import (
	"fmt"
	"sort"

	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/engine/stats"
	"github.com/nathoo/clashcore/types"
)

// Side identifies one of the two combatants.
type Side int

const (
	Left Side = iota
	Right
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return 1 - s }

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// BuffExtraAction grants one bonus slot, like the rage status.
const BuffExtraAction = "extra_action"

// StunnedCard stands in for the card of a staggered unit. It has no dice.
var StunnedCard = types.Card{ID: "staggered", Name: "Staggered"}

// Roll replaces u.Slots with one slot per speed die. Speed is the rolled
// value plus haste, minus slow and bind, floored at 1. A staggered unit
// gets a single stunned slot at speed 0.
func Roll(u *types.Unit, src roll.Source) []string {
	if state.IsStaggered(u) {
		card := StunnedCard
		u.Slots = []types.Slot{{Speed: 0, Card: &card, Target: -1, Stunned: true}}
		return []string{fmt.Sprintf("%s is staggered and cannot act", u.Name)}
	}

	ranges := append([]types.DiceRange(nil), u.SpeedDice...)
	if extraAction(u) {
		ranges = append(ranges, bonusRange(u))
	}
	shift := state.GetStatus(u, types.StatusHaste) -
		state.GetStatus(u, types.StatusSlow) -
		state.GetStatus(u, types.StatusBind)

	log := make([]string, 0, len(ranges))
	u.Slots = make([]types.Slot, 0, len(ranges))
	for i, r := range ranges {
		raw := src.NextInt(r.Min, r.Max)
		speed := raw + shift
		if speed < 1 {
			speed = 1
		}
		u.Slots = append(u.Slots, types.Slot{Speed: speed, Range: r, Target: -1})
		log = append(log, fmt.Sprintf("%s speed die %d [%d-%d] rolled %d → %d", u.Name, i, r.Min, r.Max, raw, speed))
	}
	return log
}

func extraAction(u *types.Unit) bool {
	return state.GetStatus(u, types.StatusRage) > 0 || state.HasBuff(u, BuffExtraAction)
}

// bonusRange copies slot 0's range, falling back to the unit's base range.
func bonusRange(u *types.Unit) types.DiceRange {
	if len(u.SpeedDice) > 0 {
		return u.SpeedDice[0]
	}
	if u.BaseSpeed.Max > 0 {
		return u.BaseSpeed
	}
	return stats.DefaultSpeed
}

// Playable reports whether a slot will act this turn.
func Playable(s types.Slot) bool {
	return !s.Stunned && s.Card != nil && len(s.Card.Dice) > 0
}

// ComputeRedirections retargets slots in both directions. Candidates are
// found from a snapshot taken before either direction is applied, so the
// result does not depend on which side is processed first.
func ComputeRedirections(a, b *types.Unit) []string {
	snapA := append([]types.Slot(nil), a.Slots...)
	snapB := append([]types.Slot(nil), b.Slots...)

	var log []string
	for def, att := range Intercepts(snapA, snapB) {
		b.Slots[def].Target = att
		log = append(log, fmt.Sprintf("%s slot %d redirected to %s slot %d", b.Name, def, a.Name, att))
	}
	for def, att := range Intercepts(snapB, snapA) {
		a.Slots[def].Target = att
		log = append(log, fmt.Sprintf("%s slot %d redirected to %s slot %d", a.Name, def, b.Name, att))
	}
	sort.Strings(log)
	return log
}

// Intercepts maps each defender slot to the attacker slot it must face.
// An attacker slot is a candidate for the defender slot it targets when it
// is strictly faster. Aggro candidates win; among the remaining pool the
// lowest speed wins, then the lowest slot index.
func Intercepts(attacker, defender []types.Slot) map[int]int {
	out := map[int]int{}
	picked := map[int]types.Slot{}
	for i, s := range attacker {
		if !Playable(s) {
			continue
		}
		t := s.Target
		if t < 0 || t >= len(defender) || !Playable(defender[t]) {
			continue
		}
		if s.Speed <= defender[t].Speed {
			continue
		}
		cur, ok := picked[t]
		if !ok || better(s, cur) {
			out[t] = i
			picked[t] = s
		}
	}
	return out
}

// better reports whether candidate c beats the current pick. Candidates
// arrive in slot order, so equal ones keep the earlier index.
func better(c, cur types.Slot) bool {
	if c.Aggro != cur.Aggro {
		return c.Aggro
	}
	return c.Speed < cur.Speed
}

// Action is one entry of the turn's ordered action list. Slot is -1 for a
// follow-up, which carries its own die.
type Action struct {
	Side     Side       `yaml:"side"`
	Slot     int        `yaml:"slot"`
	Score    float64    `yaml:"score"`
	FollowUp *types.Die `yaml:"follow_up,omitempty"`
	Reason   string     `yaml:"reason,omitempty"`
}

// IsFollowUp reports whether the action was queued by a hook.
func (a Action) IsFollowUp() bool { return a.FollowUp != nil }

// BuildActions merges every playable slot of both units into one list,
// scored by speed plus a tiebreaker in [0, 0.99], highest first.
// Tiebreakers are drawn left slots first, then right.
func BuildActions(left, right *types.Unit, src roll.Source) []Action {
	var actions []Action
	for _, side := range []Side{Left, Right} {
		u := left
		if side == Right {
			u = right
		}
		for i, s := range u.Slots {
			if !Playable(s) {
				continue
			}
			tie := float64(src.NextInt(0, 99)) / 100
			actions = append(actions, Action{Side: side, Slot: i, Score: float64(s.Speed) + tie})
		}
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Score > actions[j].Score
	})
	return actions
}

// SlotRef names one slot of one side.
type SlotRef struct {
	Side Side `yaml:"side"`
	Slot int  `yaml:"slot"`
}
