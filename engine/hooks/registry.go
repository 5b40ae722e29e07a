package hooks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/clashcore/engine/rules"
	"github.com/nathoo/clashcore/types"
)

// ErrFrozen is returned when registering after the registry was frozen.
var ErrFrozen = errors.New("hooks: registry is frozen")

// Registry maps content identifiers to behaviors. It is populated at startup,
// then frozen and shared read-only by every combat.
type Registry struct {
	statuses map[types.StatusID]Behavior
	passives map[string]Behavior
	talents  map[string]Behavior
	scripts  map[string]Effect
	guards   *rules.Guards
	frozen   bool
}

// NewRegistry creates an empty registry with a guard evaluator.
func NewRegistry() (*Registry, error) {
	g, err := rules.NewGuards()
	if err != nil {
		return nil, err
	}
	return &Registry{
		statuses: map[types.StatusID]Behavior{},
		passives: map[string]Behavior{},
		talents:  map[string]Behavior{},
		scripts:  map[string]Effect{},
		guards:   g,
	}, nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether the registry is read-only.
func (r *Registry) Frozen() bool { return r.frozen }

// Guards returns the guard evaluator shared by this registry.
func (r *Registry) Guards() *rules.Guards { return r.guards }

// RegisterStatus binds a status id to its behavior.
func (r *Registry) RegisterStatus(id types.StatusID, b Behavior) error {
	if r.frozen {
		return fmt.Errorf("registering status %q: %w", id, ErrFrozen)
	}
	r.statuses[id] = b
	return nil
}

// RegisterPassive binds a passive id to its behavior.
func (r *Registry) RegisterPassive(id string, b Behavior) error {
	if r.frozen {
		return fmt.Errorf("registering passive %q: %w", id, ErrFrozen)
	}
	r.passives[id] = b
	return nil
}

// RegisterTalent binds a talent id to its behavior.
func (r *Registry) RegisterTalent(id string, b Behavior) error {
	if r.frozen {
		return fmt.Errorf("registering talent %q: %w", id, ErrFrozen)
	}
	r.talents[id] = b
	return nil
}

// RegisterScript binds a script effect id.
func (r *Registry) RegisterScript(id string, e Effect) error {
	if r.frozen {
		return fmt.Errorf("registering script %q: %w", id, ErrFrozen)
	}
	r.scripts[id] = e
	return nil
}

// Status resolves a status behavior. Missing ids return ok=false.
func (r *Registry) Status(id types.StatusID) (Behavior, bool) {
	b, ok := r.statuses[id]
	return b, ok
}

// Passive resolves a passive behavior.
func (r *Registry) Passive(id string) (Behavior, bool) {
	b, ok := r.passives[id]
	return b, ok
}

// Talent resolves a talent behavior.
func (r *Registry) Talent(id string) (Behavior, bool) {
	b, ok := r.talents[id]
	return b, ok
}

// Script resolves a script effect.
func (r *Registry) Script(id string) (Effect, bool) {
	e, ok := r.scripts[id]
	return e, ok
}

// ScriptIDs returns the registered script ids, sorted.
func (r *Registry) ScriptIDs() []string {
	ids := make([]string, 0, len(r.scripts))
	for id := range r.scripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RunScripts applies each entry whose guard passes. Entries naming an
// unregistered effect, or whose guard fails to evaluate, are skipped; their
// ids are returned so the caller can report them.
func (r *Registry) RunScripts(h *Hook, entries []types.ScriptEntry) (missing []string) {
	for _, e := range entries {
		eff, ok := r.scripts[e.Effect]
		if !ok {
			missing = append(missing, e.Effect)
			continue
		}
		if e.When != "" {
			pass, err := r.guards.Eval(e.When, guardVars(h))
			if err != nil {
				h.Logf("%s: guard skipped (%v)", e.Effect, err)
				continue
			}
			if !pass {
				continue
			}
		}
		eff.Apply(h, e.Params)
	}
	return missing
}

func guardVars(h *Hook) map[string]any {
	return map[string]any{
		"self":   rules.UnitVars(h.Owner),
		"target": rules.UnitVars(h.Opponent),
		"roll":   rules.RollVars(h.Roll),
		"stack":  h.Stack,
	}
}
