// Package hooks defines the fixed hook capability set that statuses,
// passives, talents, and card scripts implement, and the registry that maps
// content identifiers to those behaviors.
package hooks

import (
	"fmt"

	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/types"
)

// Host is the combat session as seen from a hook. Hooks that want another
// roll queue a follow-up action here instead of rolling inline.
type Host interface {
	QueueFollowUp(owner *types.Unit, die types.Die, reason string)
}

// Hook is the argument passed to every hook invocation.
type Hook struct {
	Name     string
	Owner    *types.Unit
	Opponent *types.Unit
	Stack    int           // stack count when the handler is a status
	Roll     *roll.Context // nil for hooks outside die resolution
	Host     Host          // may be nil in unit tests

	Lines   []string // trace for hooks without a roll context
	Missing []string // effect ids a behavior's scripts named but the registry lacks
}

// Logf appends to the roll trace when there is one, else to h.Lines.
func (h *Hook) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if h.Roll != nil {
		h.Roll.Log = append(h.Roll.Log, line)
		return
	}
	h.Lines = append(h.Lines, line)
}

// Behavior is the fixed hook set. Every hook is optional: embed Base and
// override only what the behavior needs.
type Behavior interface {
	OnRoll(h *Hook)
	OnHit(h *Hook)
	OnClashWin(h *Hook)
	OnClashLose(h *Hook)
	OnCombatStart(h *Hook)
	OnCombatEnd(h *Hook)
	OnTurnEnd(h *Hook)
	OnCalculateStats(u *types.Unit, stack int) map[string]int
}

// Base implements every hook as a no-op.
type Base struct{}

func (Base) OnRoll(*Hook) {}
func (Base) OnHit(*Hook) {}
func (Base) OnClashWin(*Hook) {}
func (Base) OnClashLose(*Hook) {}
func (Base) OnCombatStart(*Hook) {}
func (Base) OnCombatEnd(*Hook) {}
func (Base) OnTurnEnd(*Hook) {}
func (Base) OnCalculateStats(*types.Unit, int) map[string]int { return nil }

// Call invokes the named hook on b. Unknown names are a no-op and return false.
func Call(b Behavior, h *Hook) bool {
	switch h.Name {
	case types.HookRoll:
		b.OnRoll(h)
	case types.HookHit:
		b.OnHit(h)
	case types.HookClashWin:
		b.OnClashWin(h)
	case types.HookClashLose:
		b.OnClashLose(h)
	case types.HookCombatStart:
		b.OnCombatStart(h)
	case types.HookCombatEnd:
		b.OnCombatEnd(h)
	case types.HookTurnEnd:
		b.OnTurnEnd(h)
	default:
		return false
	}
	return true
}

// Effect is a registered script effect referenced by card and die scripts.
type Effect interface {
	Apply(h *Hook, params map[string]any)
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(h *Hook, params map[string]any)

// Apply calls f.
func (f EffectFunc) Apply(h *Hook, params map[string]any) { f(h, params) }

// IntParam reads an integer parameter, accepting the numeric shapes Lua and
// YAML produce.
func IntParam(params map[string]any, key string, def int) int {
	switch n := params[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// FloatParam reads a float parameter.
func FloatParam(params map[string]any, key string, def float64) float64 {
	switch n := params[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// StringParam reads a string parameter.
func StringParam(params map[string]any, key, def string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return def
}
