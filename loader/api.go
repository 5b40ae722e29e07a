package loader

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/clashcore/content"
	"github.com/nathoo/clashcore/types"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerDieHelpers(L)
	registerScriptHelpers(L)
}

// curried registers a constructor used as Name "id" { ... }: the call with
// the id returns a function that takes the definition table.
func curried(L *lua.LState, name string, store func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			store(id, L.CheckTable(1))
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	curried(L, "Unit", func(id string, tbl *lua.LTable) { coll.add(&coll.units, id, tbl) })
	curried(L, "Card", func(id string, tbl *lua.LTable) { coll.add(&coll.cards, id, tbl) })
	curried(L, "Status", func(id string, tbl *lua.LTable) { coll.add(&coll.statuses, id, tbl) })
	curried(L, "Passive", func(id string, tbl *lua.LTable) { coll.add(&coll.passives, id, tbl) })
	curried(L, "Talent", func(id string, tbl *lua.LTable) { coll.add(&coll.talents, id, tbl) })
	curried(L, "Encounter", func(id string, tbl *lua.LTable) { coll.add(&coll.encounters, id, tbl) })
}

func registerDieHelpers(L *lua.LState) {
	// Slash(min, max [, scripts]) and friends build one die.
	for _, kind := range []types.DieKind{types.Slash, types.Pierce, types.Blunt, types.Block, types.Evade} {
		L.SetGlobal(dieHelperName(kind), L.NewFunction(func(L *lua.LState) int {
			tbl := L.NewTable()
			tbl.RawSetString("kind", lua.LString(kind))
			tbl.RawSetString("min", L.CheckNumber(1))
			tbl.RawSetString("max", L.CheckNumber(2))
			if scripts, ok := L.Get(3).(*lua.LTable); ok {
				tbl.RawSetString("scripts", scripts)
			}
			L.Push(tbl)
			return 1
		}))
	}

	// Dice(min, max) is an inclusive range, used for base speed.
	L.SetGlobal("Dice", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("min", L.CheckNumber(1))
		tbl.RawSetString("max", L.CheckNumber(2))
		L.Push(tbl)
		return 1
	}))
}

func dieHelperName(k types.DieKind) string {
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// entry builds a script entry table: effect plus named parameters.
func entry(L *lua.LState, effect string, params map[string]lua.LValue) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("effect", lua.LString(effect))
	for k, v := range params {
		if v != lua.LNil {
			tbl.RawSetString(k, v)
		}
	}
	return tbl
}

// mergeOpts copies an optional trailing options table into params.
func mergeOpts(L *lua.LState, n int, params map[string]lua.LValue) map[string]lua.LValue {
	if opts, ok := L.Get(n).(*lua.LTable); ok {
		opts.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				params[string(ks)] = v
			}
		})
	}
	return params
}

func registerScriptHelpers(L *lua.LState) {
	// Inflict("status", amount [, { delay =, duration =, target = }])
	L.SetGlobal("Inflict", L.NewFunction(func(L *lua.LState) int {
		params := mergeOpts(L, 3, map[string]lua.LValue{
			"status": lua.LString(L.CheckString(1)),
			"amount": L.OptNumber(2, 1),
		})
		L.Push(entry(L, content.ScriptInflict, params))
		return 1
	}))

	// Power(amount)
	L.SetGlobal("Power", L.NewFunction(func(L *lua.LState) int {
		L.Push(entry(L, content.ScriptPower, map[string]lua.LValue{"amount": L.CheckNumber(1)}))
		return 1
	}))

	// Crit(multiplier)
	L.SetGlobal("Crit", L.NewFunction(func(L *lua.LState) int {
		L.Push(entry(L, content.ScriptCrit, map[string]lua.LValue{"multiplier": L.OptNumber(1, 1.5)}))
		return 1
	}))

	// Heal(amount [, opts])
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		params := mergeOpts(L, 2, map[string]lua.LValue{"amount": L.CheckNumber(1)})
		L.Push(entry(L, content.ScriptHeal, params))
		return 1
	}))

	// RecoverStagger(amount [, opts])
	L.SetGlobal("RecoverStagger", L.NewFunction(func(L *lua.LState) int {
		params := mergeOpts(L, 2, map[string]lua.LValue{"amount": L.CheckNumber(1)})
		L.Push(entry(L, content.ScriptRecoverStagger, params))
		return 1
	}))

	// GainSP(amount [, opts])
	L.SetGlobal("GainSP", L.NewFunction(func(L *lua.LState) int {
		params := mergeOpts(L, 2, map[string]lua.LValue{"amount": L.CheckNumber(1)})
		L.Push(entry(L, content.ScriptGainSP, params))
		return 1
	}))

	// Counter("kind", min, max)
	L.SetGlobal("Counter", L.NewFunction(func(L *lua.LState) int {
		L.Push(entry(L, content.ScriptCounter, map[string]lua.LValue{
			"kind": lua.LString(L.CheckString(1)),
			"min":  L.CheckNumber(2),
			"max":  L.CheckNumber(3),
		}))
		return 1
	}))

	// Buff("name", turns [, opts])
	L.SetGlobal("Buff", L.NewFunction(func(L *lua.LState) int {
		params := mergeOpts(L, 3, map[string]lua.LValue{
			"name":  lua.LString(L.CheckString(1)),
			"turns": L.OptNumber(2, 1),
		})
		L.Push(entry(L, content.ScriptBuff, params))
		return 1
	}))

	// Script("effect", { params }) names any registered effect.
	L.SetGlobal("Script", L.NewFunction(func(L *lua.LState) int {
		L.Push(entry(L, L.CheckString(1), mergeOpts(L, 2, map[string]lua.LValue{})))
		return 1
	}))

	// When("expr", entry) guards an entry with a CEL expression.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		tbl := L.CheckTable(2)
		tbl.RawSetString("when", lua.LString(expr))
		L.Push(tbl)
		return 1
	}))
}
