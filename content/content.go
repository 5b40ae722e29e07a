// Package content is the built-in behavior library: every status in the
// closed set, a handful of passives and talents, and the script effects
// that card and die scripts name.
package content

import (
	"fmt"
	"sort"

	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/types"
)

// Register installs the built-in library into reg. Content loaded later
// may override any id.
func Register(reg *hooks.Registry) error {
	for _, id := range sortedStatusIDs(statuses()) {
		if err := reg.RegisterStatus(id, statuses()[id]); err != nil {
			return err
		}
	}
	for id, b := range passives(reg) {
		if err := reg.RegisterPassive(id, b); err != nil {
			return err
		}
	}
	for id, b := range talents(reg) {
		if err := reg.RegisterTalent(id, b); err != nil {
			return err
		}
	}
	for id, e := range scripts() {
		if err := reg.RegisterScript(id, e); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in library.
func NewRegistry() (*hooks.Registry, error) {
	reg, err := hooks.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := Register(reg); err != nil {
		return nil, fmt.Errorf("registering built-ins: %w", err)
	}
	return reg, nil
}

func sortedStatusIDs(m map[types.StatusID]hooks.Behavior) []types.StatusID {
	ids := make([]types.StatusID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// passives are equipment-like: their percentage bonuses use the
// equipment layer.
func passives(reg *hooks.Registry) map[string]hooks.Behavior {
	return map[string]hooks.Behavior{
		"plated_armor": &hooks.Scripted{Stats: map[string]int{"hp_pct": 10, "damage_taken": -1}},
		"light_boots":  &hooks.Scripted{Stats: map[string]int{"speed": 5}},
		"serrated_edge": &hooks.Scripted{Registry: reg, Scripts: map[string][]types.ScriptEntry{
			types.HookHit: {{Effect: ScriptInflict, Params: map[string]any{"status": "bleed", "amount": 1}}},
		}},
		"retaliation": &hooks.Scripted{Registry: reg, Scripts: map[string][]types.ScriptEntry{
			types.HookClashLose: {{
				Effect: ScriptCounter,
				Params: map[string]any{"kind": "blunt", "min": 1, "max": 3},
				When:   "roll.kind == 'block'",
			}},
		}},
	}
}

// talents use the talent layer.
func talents(reg *hooks.Registry) map[string]hooks.Behavior {
	return map[string]hooks.Behavior{
		"veteran": &hooks.Scripted{Stats: map[string]int{"strength": 5, "hp_pct": 10}},
		"composure": &hooks.Scripted{Registry: reg, Scripts: map[string][]types.ScriptEntry{
			types.HookCombatStart: {{Effect: ScriptGainSP, Params: map[string]any{"amount": 1}}},
		}},
		"second_wind": &hooks.Scripted{Registry: reg, Scripts: map[string][]types.ScriptEntry{
			types.HookTurnEnd: {{
				Effect: ScriptRecoverStagger,
				Params: map[string]any{"amount": 5},
				When:   "self.hp * 2 < self.max_hp",
			}},
		}},
	}
}
