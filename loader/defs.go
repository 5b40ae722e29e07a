package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/engine/stats"
	"github.com/nathoo/clashcore/types"
)

// Content is everything loaded from one content directory.
type Content struct {
	Units      map[string]types.UnitDef
	Cards      map[string]types.Card
	Statuses   map[types.StatusID]BehaviorDef
	Passives   map[string]BehaviorDef
	Talents    map[string]BehaviorDef
	Encounters []Encounter // file order
	Warnings   []string

	duplicates []string
}

// BehaviorDef is a data-driven status, passive, or talent.
type BehaviorDef struct {
	ID      string
	Stats   map[string]int
	Scripts map[string][]types.ScriptEntry
}

// Encounter names the two units of a predefined fight.
type Encounter struct {
	ID    string
	Left  string
	Right string
	Seed  int64 // 0 = caller decides
	Turns int   // 0 = caller decides
}

// Register installs the content's behaviors into reg as hooks.Scripted.
// Status stats scale with the stack count. Content ids replace built-ins
// with the same id.
func (c *Content) Register(reg *hooks.Registry) error {
	for _, id := range sortedKeys(c.Statuses) {
		b := c.Statuses[types.StatusID(id)]
		s := &hooks.Scripted{Registry: reg, Stats: b.Stats, PerStack: true, Scripts: b.Scripts}
		if err := reg.RegisterStatus(types.StatusID(id), s); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(c.Passives) {
		b := c.Passives[id]
		if err := reg.RegisterPassive(id, &hooks.Scripted{Registry: reg, Stats: b.Stats, Scripts: b.Scripts}); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(c.Talents) {
		b := c.Talents[id]
		if err := reg.RegisterTalent(id, &hooks.Scripted{Registry: reg, Stats: b.Stats, Scripts: b.Scripts}); err != nil {
			return err
		}
	}
	return nil
}

// Spawn creates a primed runtime unit from a unit definition.
func (c *Content) Spawn(id string, d *events.Dispatcher) (*types.Unit, error) {
	def, ok := c.Units[id]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q", id)
	}
	u := state.Spawn(def, c.Cards)
	stats.Prime(u, d)
	return u, nil
}

// Encounter returns the encounter with the given id, or the first one when
// id is empty.
func (c *Content) Encounter(id string) (Encounter, bool) {
	for _, e := range c.Encounters {
		if id == "" || e.ID == id {
			return e, true
		}
	}
	return Encounter{}, false
}

// UnitIDs returns the unit ids, sorted.
func (c *Content) UnitIDs() []string {
	return sortedKeys(c.Units)
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
