// Package roll holds the short-lived context built for every die rolled.
package roll

import (
	"fmt"

	"github.com/nathoo/clashcore/types"
)

// Context is created fresh for one die resolution and discarded after.
// Value starts at the raw roll and is mutated by every hook that fires.
type Context struct {
	Source     *types.Unit
	Target     *types.Unit
	Die        types.Die
	Card       *types.Card
	Raw        int
	Value      int
	Multiplier float64 // damage multiplier, 1.0 unless a crit applies
	Log        []string
}

// New creates a context for a die whose raw roll is already known.
func New(source, target *types.Unit, card *types.Card, die types.Die, raw int) *Context {
	return &Context{
		Source:     source,
		Target:     target,
		Die:        die,
		Card:       card,
		Raw:        raw,
		Value:      raw,
		Multiplier: 1.0,
	}
}

// Add mutates the running value and records why. A zero delta is ignored.
func (c *Context) Add(delta int, reason string) {
	if delta == 0 {
		return
	}
	c.Value += delta
	c.Log = append(c.Log, fmt.Sprintf("%s %+d → %d", reason, delta, c.Value))
}

// Scale multiplies the damage multiplier and records why.
func (c *Context) Scale(factor float64, reason string) {
	if factor == 1.0 {
		return
	}
	c.Multiplier *= factor
	c.Log = append(c.Log, fmt.Sprintf("%s x%.2f (multiplier %.2f)", reason, factor, c.Multiplier))
}

// Note appends a trace entry without changing the value.
func (c *Context) Note(format string, args ...any) {
	c.Log = append(c.Log, fmt.Sprintf(format, args...))
}

// Final returns the resolved value, never below zero.
func (c *Context) Final() int {
	if c.Value < 0 {
		return 0
	}
	return c.Value
}

// String summarizes the roll for combat logs.
func (c *Context) String() string {
	name := ""
	if c.Source != nil {
		name = c.Source.Name
	}
	return fmt.Sprintf("%s %s [%d-%d] rolled %d → %d", name, c.Die.Kind, c.Die.Min, c.Die.Max, c.Raw, c.Final())
}
