// Package rules evaluates the CEL guard expressions attached to script
// entries. A guard is compiled once per distinct expression and cached.
package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// Guards compiles and evaluates guard expressions. Safe for concurrent use,
// since one registry may serve several combats at once.
type Guards struct {
	env *cel.Env

	mu    sync.Mutex
	cache map[string]cel.Program
}

// NewGuards builds the CEL environment with the variables scripts may read:
// self, target, roll (maps) and stack (int).
func NewGuards() (*Guards, error) {
	env, err := cel.NewEnv(
		cel.Variable("self", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("target", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("roll", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("stack", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("building guard environment: %w", err)
	}
	return &Guards{env: env, cache: map[string]cel.Program{}}, nil
}

// Check compiles an expression and verifies it yields a bool.
func (g *Guards) Check(expr string) error {
	_, err := g.program(expr)
	return err
}

func (g *Guards) program(expr string) (cel.Program, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prg, ok := g.cache[expr]; ok {
		return prg, nil
	}
	ast, iss := g.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compiling guard %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("guard %q must be a bool expression, got %s", expr, ast.OutputType())
	}
	prg, err := g.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("planning guard %q: %w", expr, err)
	}
	g.cache[expr] = prg
	return prg, nil
}

// Eval evaluates a guard. An empty expression is vacuously true.
func (g *Guards) Eval(expr string, vars map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := g.program(expr)
	if err != nil {
		return false, err
	}
	for _, k := range []string{"self", "target", "roll"} {
		if _, ok := vars[k]; !ok {
			vars[k] = map[string]any{}
		}
	}
	if _, ok := vars["stack"]; !ok {
		vars["stack"] = 0
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluating guard %q: %w", expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("guard %q returned %T, want bool", expr, out.Value())
	}
	return b, nil
}

// UnitVars exposes a unit's resources and active statuses to guards.
func UnitVars(u *types.Unit) map[string]any {
	if u == nil {
		return map[string]any{}
	}
	statuses := make(map[string]any, types.NumKnownStatuses)
	for _, id := range types.KnownStatuses {
		statuses[string(id)] = state.GetStatus(u, id)
	}
	for _, e := range state.ActiveStatuses(u) {
		statuses[string(e.ID)] = e.Stack
	}
	return map[string]any{
		"name":        u.Name,
		"level":       u.Level,
		"hp":          u.HP,
		"max_hp":      u.MaxHP,
		"sp":          u.SP,
		"max_sp":      u.MaxSP,
		"stagger":     u.Stagger,
		"max_stagger": u.MaxStagger,
		"staggered":   state.IsStaggered(u),
		"dead":        state.IsDead(u),
		"statuses":    statuses,
	}
}

// RollVars exposes the die being resolved to guards.
func RollVars(c *roll.Context) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return map[string]any{
		"kind":      string(c.Die.Kind),
		"min":       c.Die.Min,
		"max":       c.Die.Max,
		"raw":       c.Raw,
		"value":     c.Value,
		"offensive": state.IsOffensive(c.Die.Kind),
	}
}
