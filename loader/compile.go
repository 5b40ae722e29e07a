// Package loader loads Lua combat content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs during combat.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/clashcore/types"
)

// rawDef holds one constructor call before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
	file  string
}

// Hook keys accepted on each kind of definition.
var (
	behaviorHooks = []string{
		types.HookRoll, types.HookHit, types.HookClashWin, types.HookClashLose,
		types.HookCombatStart, types.HookCombatEnd, types.HookTurnEnd,
	}
	cardHooks = []string{types.HookUse, types.HookCombatEnd}
	dieHooks  = []string{types.HookRoll, types.HookHit, types.HookClashWin, types.HookClashLose}
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key, 0))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// intMap converts a Lua table of numbers to a map[string]int.
func intMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[string(ks)] = int(n)
		}
	})
	return m
}

// intList converts a Lua array of numbers.
func intList(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	var out []int
	for i := 1; i <= tbl.MaxN(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// stringList converts a Lua array of strings.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into Content.
func compile(coll *collector) (*Content, error) {
	if len(coll.units) == 0 {
		return nil, fmt.Errorf("no Unit definitions found")
	}
	c := &Content{
		Units:    map[string]types.UnitDef{},
		Cards:    map[string]types.Card{},
		Statuses: map[types.StatusID]BehaviorDef{},
		Passives: map[string]BehaviorDef{},
		Talents:  map[string]BehaviorDef{},
	}
	seen := map[string]string{}
	dup := func(kind string, raw rawDef) bool {
		key := kind + ":" + raw.id
		if prev, ok := seen[key]; ok {
			c.duplicates = append(c.duplicates, fmt.Sprintf(
				"duplicate %s %q in %s (first defined in %s)", kind, raw.id, raw.file, prev))
			return true
		}
		seen[key] = raw.file
		return false
	}

	for _, raw := range coll.cards {
		if dup("card", raw) {
			continue
		}
		card, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling card %s: %w", raw.id, err)
		}
		c.Cards[card.ID] = card
	}
	for _, raw := range coll.units {
		if dup("unit", raw) {
			continue
		}
		c.Units[raw.id] = compileUnit(raw)
	}
	for _, raw := range coll.statuses {
		if !dup("status", raw) {
			c.Statuses[types.StatusID(raw.id)] = compileBehavior(raw)
		}
	}
	for _, raw := range coll.passives {
		if !dup("passive", raw) {
			c.Passives[raw.id] = compileBehavior(raw)
		}
	}
	for _, raw := range coll.talents {
		if !dup("talent", raw) {
			c.Talents[raw.id] = compileBehavior(raw)
		}
	}
	for _, raw := range coll.encounters {
		if !dup("encounter", raw) {
			c.Encounters = append(c.Encounters, compileEncounter(raw))
		}
	}
	return c, nil
}

func compileUnit(raw rawDef) types.UnitDef {
	tbl := raw.table
	def := types.UnitDef{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Level:         int(getNumber(tbl, "level", 1)),
		HP:            getInt(tbl, "hp"),
		SP:            getInt(tbl, "sp"),
		HPRolls:       intList(getTable(tbl, "hp_rolls")),
		SPRolls:       intList(getTable(tbl, "sp_rolls")),
		Attributes:    intMap(getTable(tbl, "attributes")),
		Skills:        intMap(getTable(tbl, "skills")),
		BaseSpeed:     compileRange(getTable(tbl, "speed")),
		HPResist:      compileResist(getTable(tbl, "hp_resist")),
		StaggerResist: compileResist(getTable(tbl, "stagger_resist")),
		Passives:      stringList(getTable(tbl, "passives")),
		Talents:       stringList(getTable(tbl, "talents")),
		Deck:          stringList(getTable(tbl, "deck")),
	}
	if def.Name == "" {
		def.Name = raw.id
	}
	return def
}

// compileRange accepts Dice(min, max), { min =, max = }, or { min, max }.
func compileRange(tbl *lua.LTable) types.DiceRange {
	if tbl == nil {
		return types.DiceRange{}
	}
	if tbl.MaxN() >= 2 {
		if lo, ok := tbl.RawGetInt(1).(lua.LNumber); ok {
			if hi, ok := tbl.RawGetInt(2).(lua.LNumber); ok {
				return types.DiceRange{Min: int(lo), Max: int(hi)}
			}
		}
	}
	return types.DiceRange{Min: getInt(tbl, "min"), Max: getInt(tbl, "max")}
}

// compileResist fills missing kinds with 1.0.
func compileResist(tbl *lua.LTable) types.Resistances {
	r := types.Resistances{Slash: 1, Pierce: 1, Blunt: 1}
	if tbl == nil {
		return r
	}
	r.Slash = getNumber(tbl, string(types.Slash), 1)
	r.Pierce = getNumber(tbl, string(types.Pierce), 1)
	r.Blunt = getNumber(tbl, string(types.Blunt), 1)
	return r
}

func compileCard(raw rawDef) (types.Card, error) {
	tbl := raw.table
	card := types.Card{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Cooldown: getInt(tbl, "cooldown"),
		Scripts:  compileScripts(tbl, cardHooks),
	}
	if card.Name == "" {
		card.Name = raw.id
	}
	dice := getTable(tbl, "dice")
	if dice == nil {
		return card, fmt.Errorf("missing dice")
	}
	for i := 1; i <= dice.MaxN(); i++ {
		d, ok := dice.RawGetInt(i).(*lua.LTable)
		if !ok {
			return card, fmt.Errorf("die %d is not a table", i)
		}
		card.Dice = append(card.Dice, compileDie(d))
	}
	return card, nil
}

func compileDie(tbl *lua.LTable) types.Die {
	die := types.Die{
		Kind: types.DieKind(getString(tbl, "kind")),
		Min:  getInt(tbl, "min"),
		Max:  getInt(tbl, "max"),
	}
	if scripts := getTable(tbl, "scripts"); scripts != nil {
		die.Scripts = compileScripts(scripts, dieHooks)
	}
	return die
}

// compileScripts reads one entry list per hook key present in tbl.
func compileScripts(tbl *lua.LTable, hookNames []string) map[string][]types.ScriptEntry {
	var out map[string][]types.ScriptEntry
	for _, name := range hookNames {
		list := getTable(tbl, name)
		if list == nil {
			continue
		}
		var entries []types.ScriptEntry
		for i := 1; i <= list.MaxN(); i++ {
			if e, ok := list.RawGetInt(i).(*lua.LTable); ok {
				entries = append(entries, compileEntry(e))
			}
		}
		if len(entries) == 0 {
			continue
		}
		if out == nil {
			out = map[string][]types.ScriptEntry{}
		}
		out[name] = entries
	}
	return out
}

// compileEntry splits an entry table into its effect, guard, and params.
func compileEntry(tbl *lua.LTable) types.ScriptEntry {
	e := types.ScriptEntry{
		Effect: getString(tbl, "effect"),
		When:   getString(tbl, "when"),
	}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok || ks == "effect" || ks == "when" {
			return
		}
		if e.Params == nil {
			e.Params = map[string]any{}
		}
		e.Params[string(ks)] = toGoValue(v)
	})
	return e
}

func compileBehavior(raw rawDef) BehaviorDef {
	return BehaviorDef{
		ID:      raw.id,
		Stats:   intMap(getTable(raw.table, "stats")),
		Scripts: compileScripts(raw.table, behaviorHooks),
	}
}

func compileEncounter(raw rawDef) Encounter {
	tbl := raw.table
	return Encounter{
		ID:    raw.id,
		Left:  getString(tbl, "left"),
		Right: getString(tbl, "right"),
		Seed:  int64(getNumber(tbl, "seed", 0)),
		Turns: getInt(tbl, "turns"),
	}
}

// sortedLuaFiles returns .lua file names with main.lua first, the rest
// alphabetical.
func sortedLuaFiles(files []string) []string {
	var mainFile string
	var others []string
	for _, f := range files {
		if f == "main.lua" {
			mainFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if mainFile != "" {
		return append([]string{mainFile}, others...)
	}
	return others
}
