package hooks

import "github.com/nathoo/clashcore/types"

// Scripted is a data-driven behavior: static stat deltas plus script lists
// keyed by hook name. Content files use it to define statuses, passives,
// and talents without Go code.
type Scripted struct {
	Registry *Registry
	Stats    map[string]int
	PerStack bool // multiply Stats by the stack count (statuses)
	Scripts  map[string][]types.ScriptEntry
}

func (s *Scripted) run(h *Hook) {
	if s.Registry == nil {
		return
	}
	if entries := s.Scripts[h.Name]; len(entries) > 0 {
		h.Missing = append(h.Missing, s.Registry.RunScripts(h, entries)...)
	}
}

func (s *Scripted) OnRoll(h *Hook)        { s.run(h) }
func (s *Scripted) OnHit(h *Hook)         { s.run(h) }
func (s *Scripted) OnClashWin(h *Hook)    { s.run(h) }
func (s *Scripted) OnClashLose(h *Hook)   { s.run(h) }
func (s *Scripted) OnCombatStart(h *Hook) { s.run(h) }
func (s *Scripted) OnCombatEnd(h *Hook)   { s.run(h) }
func (s *Scripted) OnTurnEnd(h *Hook)     { s.run(h) }

// OnCalculateStats returns the static deltas, scaled by stack if PerStack.
func (s *Scripted) OnCalculateStats(_ *types.Unit, stack int) map[string]int {
	if len(s.Stats) == 0 {
		return nil
	}
	mult := 1
	if s.PerStack {
		mult = stack
	}
	out := make(map[string]int, len(s.Stats))
	for k, v := range s.Stats {
		out[k] = v * mult
	}
	return out
}
