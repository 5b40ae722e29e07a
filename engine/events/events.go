// Package events implements hook dispatch over everything a unit owns.
// Order is fixed: statuses, passives, talents, then scripts on the active
// die. Dispatch is single-pass and never re-enters for the same roll.
package events

import (
	"go.uber.org/zap"

	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// Dispatcher invokes hooks through a registry.
type Dispatcher struct {
	Registry *hooks.Registry
	Logger   *zap.Logger

	active map[*roll.Context]bool
}

// New creates a dispatcher. A nil logger is replaced with a no-op one.
func New(reg *hooks.Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Registry: reg, Logger: logger, active: map[*roll.Context]bool{}}
}

// Dispatch runs the named hook for owner. rc is the roll being resolved, or
// nil for turn-level hooks. Returns trace lines produced by hooks that had
// no roll context to write to.
func (d *Dispatcher) Dispatch(name string, owner, opponent *types.Unit, rc *roll.Context, host hooks.Host) []string {
	if owner == nil {
		return nil
	}
	if rc != nil {
		if d.active[rc] {
			d.Logger.Warn("re-entrant dispatch ignored",
				zap.String("hook", name), zap.String("unit", owner.Name))
			return nil
		}
		d.active[rc] = true
		defer delete(d.active, rc)
	}

	h := &hooks.Hook{Name: name, Owner: owner, Opponent: opponent, Roll: rc, Host: host}

	// 1. Statuses, from a snapshot: handlers may add or remove statuses.
	for _, e := range state.ActiveStatuses(owner) {
		b, ok := d.Registry.Status(e.ID)
		if !ok {
			d.missing("status", string(e.ID))
			continue
		}
		h.Stack = e.Stack
		hooks.Call(b, h)
	}
	h.Stack = 0

	// 2. Passives.
	for _, id := range append([]string(nil), owner.Passives...) {
		b, ok := d.Registry.Passive(id)
		if !ok {
			d.missing("passive", id)
			continue
		}
		hooks.Call(b, h)
	}

	// 3. Talents.
	for _, id := range append([]string(nil), owner.Talents...) {
		b, ok := d.Registry.Talent(id)
		if !ok {
			d.missing("talent", id)
			continue
		}
		hooks.Call(b, h)
	}

	// 4. Scripts embedded in the active die.
	if rc != nil {
		if entries := rc.Die.Scripts[name]; len(entries) > 0 {
			h.Missing = append(h.Missing, d.Registry.RunScripts(h, entries)...)
		}
	}

	for _, id := range h.Missing {
		d.missing("script", id)
	}
	return h.Lines
}

// RunCardScripts runs a card-level trigger (on_use, on_combat_end).
func (d *Dispatcher) RunCardScripts(trigger string, card *types.Card, owner, opponent *types.Unit, host hooks.Host) []string {
	if card == nil || len(card.Scripts[trigger]) == 0 {
		return nil
	}
	h := &hooks.Hook{Name: trigger, Owner: owner, Opponent: opponent, Host: host}
	for _, id := range d.Registry.RunScripts(h, card.Scripts[trigger]) {
		d.missing("script", id)
	}
	return h.Lines
}

// CalculateStats collects on_calculate_stats deltas from every status,
// passive, and talent the unit owns, tagged by source category.
func (d *Dispatcher) CalculateStats(u *types.Unit) []StatContribution {
	var out []StatContribution
	for _, e := range state.ActiveStatuses(u) {
		b, ok := d.Registry.Status(e.ID)
		if !ok {
			d.missing("status", string(e.ID))
			continue
		}
		if deltas := b.OnCalculateStats(u, e.Stack); len(deltas) > 0 {
			out = append(out, StatContribution{Source: SourceStatus, ID: string(e.ID), Deltas: deltas})
		}
	}
	for _, id := range u.Passives {
		b, ok := d.Registry.Passive(id)
		if !ok {
			d.missing("passive", id)
			continue
		}
		if deltas := b.OnCalculateStats(u, 0); len(deltas) > 0 {
			out = append(out, StatContribution{Source: SourcePassive, ID: id, Deltas: deltas})
		}
	}
	for _, id := range u.Talents {
		b, ok := d.Registry.Talent(id)
		if !ok {
			d.missing("talent", id)
			continue
		}
		if deltas := b.OnCalculateStats(u, 0); len(deltas) > 0 {
			out = append(out, StatContribution{Source: SourceTalent, ID: id, Deltas: deltas})
		}
	}
	return out
}

// Source identifies which category a stat contribution came from.
type Source int

const (
	SourceStatus Source = iota
	SourcePassive
	SourceTalent
)

// StatContribution is one owner's on_calculate_stats result.
type StatContribution struct {
	Source Source
	ID     string
	Deltas map[string]int
}

func (d *Dispatcher) missing(kind, id string) {
	d.Logger.Info("missing reference", zap.String("kind", kind), zap.String("id", id))
}
