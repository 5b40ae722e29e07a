package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/clashcore/content"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validDieKinds = map[types.DieKind]bool{
	types.Slash:  true,
	types.Pierce: true,
	types.Blunt:  true,
	types.Block:  true,
	types.Evade:  true,
}

// validate checks the compiled content for referential integrity. Broken
// structure is an error; references the engine would skip at dispatch time
// are warnings. Warnings are stored on c either way.
func validate(c *Content, reg *hooks.Registry) error {
	ve := &ValidationError{}
	ve.Errors = append(ve.Errors, c.duplicates...)

	for _, id := range c.UnitIDs() {
		validateUnit(c.Units[id], c, reg, ve)
	}
	for _, id := range sortedKeys(c.Cards) {
		validateCard(c.Cards[id], c, reg, ve)
	}
	for _, id := range sortedKeys(c.Statuses) {
		validateBehavior("status", c.Statuses[types.StatusID(id)], c, reg, ve)
	}
	for _, id := range sortedKeys(c.Passives) {
		validateBehavior("passive", c.Passives[id], c, reg, ve)
	}
	for _, id := range sortedKeys(c.Talents) {
		validateBehavior("talent", c.Talents[id], c, reg, ve)
	}
	for _, e := range c.Encounters {
		for _, side := range []string{e.Left, e.Right} {
			if _, ok := c.Units[side]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"encounter %q references undefined unit %q", e.ID, side))
			}
		}
	}

	c.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateUnit(u types.UnitDef, c *Content, reg *hooks.Registry, ve *ValidationError) {
	if u.HP <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("unit %q needs a positive hp", u.ID))
	}
	if u.BaseSpeed.Min > u.BaseSpeed.Max || u.BaseSpeed.Min < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"unit %q speed range [%d, %d] is invalid", u.ID, u.BaseSpeed.Min, u.BaseSpeed.Max))
	}
	if len(u.Deck) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("unit %q has an empty deck", u.ID))
	}
	for _, id := range u.Deck {
		if _, ok := c.Cards[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"unit %q deck references undefined card %q", u.ID, id))
		}
	}
	for _, id := range u.Passives {
		_, builtin := reg.Passive(id)
		if _, ok := c.Passives[id]; !ok && !builtin {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"unit %q passive %q is not defined and will be skipped", u.ID, id))
		}
	}
	for _, id := range u.Talents {
		_, builtin := reg.Talent(id)
		if _, ok := c.Talents[id]; !ok && !builtin {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"unit %q talent %q is not defined and will be skipped", u.ID, id))
		}
	}
}

func validateCard(card types.Card, c *Content, reg *hooks.Registry, ve *ValidationError) {
	if len(card.Dice) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("card %q has no dice", card.ID))
	}
	if card.Cooldown < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("card %q has a negative cooldown", card.ID))
	}
	for i, d := range card.Dice {
		where := fmt.Sprintf("card %q die %d", card.ID, i+1)
		if !validDieKinds[d.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s has unknown kind %q", where, d.Kind))
		}
		if d.Min < 0 || d.Min > d.Max {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s range [%d, %d] is invalid", where, d.Min, d.Max))
		}
		validateScripts(where, d.Scripts, c, reg, ve)
	}
	validateScripts(fmt.Sprintf("card %q", card.ID), card.Scripts, c, reg, ve)
}

func validateBehavior(kind string, b BehaviorDef, c *Content, reg *hooks.Registry, ve *ValidationError) {
	validateScripts(fmt.Sprintf("%s %q", kind, b.ID), b.Scripts, c, reg, ve)
}

func validateScripts(where string, scripts map[string][]types.ScriptEntry, c *Content, reg *hooks.Registry, ve *ValidationError) {
	for _, hook := range sortedKeys(scripts) {
		for _, e := range scripts[hook] {
			if _, ok := reg.Script(e.Effect); !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"%s %s uses unknown effect %q", where, hook, e.Effect))
			}
			if e.When != "" {
				if err := reg.Guards().Check(e.When); err != nil {
					ve.Errors = append(ve.Errors, fmt.Sprintf("%s %s: %v", where, hook, err))
				}
			}
			if e.Effect == content.ScriptInflict {
				id := types.StatusID(hooks.StringParam(e.Params, "status", ""))
				_, builtin := reg.Status(id)
				if _, ok := c.Statuses[id]; !ok && !builtin && !state.IsKnownStatus(id) {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf(
						"%s %s inflicts undefined status %q", where, hook, id))
				}
			}
		}
	}
}
