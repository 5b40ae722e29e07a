// Package engine provides the Combat session that wires together stat
// aggregation, initiative, clash resolution, and hook dispatch into
// resolvable turns.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/clashcore/engine/clash"
	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/initiative"
	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/types"
)

// Errors returned by session operations.
var (
	ErrWrongPhase  = errors.New("engine: operation not allowed in this phase")
	ErrUnknownCard = errors.New("engine: card not in deck")
	ErrBadSlot     = errors.New("engine: no such slot")
	ErrOnCooldown  = errors.New("engine: card is on cooldown")
)

// Phase is the session's position in the turn lifecycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseAssign  Phase = "assign"
	PhaseActions Phase = "actions"
)

// Outcome is the terminal state of one action.
type Outcome string

const (
	OutcomeClash   Outcome = "clash"
	OutcomeOneSide Outcome = "one_sided"
	OutcomeSkipped Outcome = "skipped"
)

// ActionResult is what one Step resolved.
type ActionResult struct {
	Action  initiative.Action
	Outcome Outcome
	Log     []string
}

// Combat is one two-unit combat session. It owns both units and its RNG.
// All methods run on the caller's goroutine; a Combat is not safe for
// concurrent use.
type Combat struct {
	Left, Right *types.Unit
	Registry    *hooks.Registry
	RNG         *RNG
	Turn        int
	Phase       Phase
	Actions     []initiative.Action
	Next        int
	Consumed    map[initiative.SlotRef]bool

	source     roll.Source
	logger     *zap.Logger
	dispatcher *events.Dispatcher
	resolver   *clash.Resolver
	ending     bool // EndTurn hooks are running
}

// Option configures a Combat.
type Option func(*Combat)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Combat) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSource replaces the seeded RNG as the source of dice. Sessions built
// this way cannot be checkpointed.
func WithSource(src roll.Source) Option {
	return func(c *Combat) { c.source = src }
}

// WithRNG resumes a session on an existing RNG.
func WithRNG(rng *RNG) Option {
	return func(c *Combat) {
		c.RNG = rng
		c.source = rng
	}
}

// New creates a session between left and right. Units should already be
// primed (see stats.Prime).
func New(left, right *types.Unit, reg *hooks.Registry, seed int64, opts ...Option) *Combat {
	c := &Combat{
		Left:     left,
		Right:    right,
		Registry: reg,
		RNG:      NewRNG(seed),
		Turn:     1,
		Phase:    PhaseIdle,
		Consumed: map[initiative.SlotRef]bool{},
		logger:   zap.NewNop(),
	}
	c.source = c.RNG
	for _, o := range opts {
		o(c)
	}
	c.dispatcher = events.New(reg, c.logger)
	c.resolver = &clash.Resolver{Dispatcher: c.dispatcher, Source: c.source, Host: c}
	return c
}

// Logger returns the session logger.
func (c *Combat) Logger() *zap.Logger { return c.logger }

// Dispatcher returns the session's hook dispatcher.
func (c *Combat) Dispatcher() *events.Dispatcher { return c.dispatcher }

// Checkpointable reports whether the dice come from the session RNG.
func (c *Combat) Checkpointable() bool {
	rng, ok := c.source.(*RNG)
	return ok && rng == c.RNG
}

// Unit returns the unit on side s.
func (c *Combat) Unit(s initiative.Side) *types.Unit {
	if s == initiative.Left {
		return c.Left
	}
	return c.Right
}

// SideOf returns the side u fights on.
func (c *Combat) SideOf(u *types.Unit) (initiative.Side, bool) {
	switch u {
	case c.Left:
		return initiative.Left, true
	case c.Right:
		return initiative.Right, true
	}
	return 0, false
}

// QueueFollowUp appends a fresh one-sided action for owner. It is only
// honored while actions are resolving, never from end-of-turn hooks.
func (c *Combat) QueueFollowUp(owner *types.Unit, die types.Die, reason string) {
	side, ok := c.SideOf(owner)
	if !ok || c.Phase != PhaseActions || c.ending {
		c.logger.Debug("follow-up dropped", zap.String("reason", reason), zap.String("phase", string(c.Phase)))
		return
	}
	d := die
	c.Actions = append(c.Actions, initiative.Action{Side: side, Slot: -1, FollowUp: &d, Reason: reason})
	c.logger.Debug("follow-up queued",
		zap.String("unit", owner.Name), zap.String("reason", reason), zap.String("kind", string(die.Kind)))
}

// Over reports whether a unit has fallen.
func (c *Combat) Over() bool {
	return c.Left.HP <= 0 || c.Right.HP <= 0
}

// Winner returns the surviving unit, or nil while both stand or both fell.
func (c *Combat) Winner() *types.Unit {
	switch {
	case c.Left.HP > 0 && c.Right.HP <= 0:
		return c.Left
	case c.Right.HP > 0 && c.Left.HP <= 0:
		return c.Right
	}
	return nil
}

// Done reports whether every action of the turn has been resolved.
func (c *Combat) Done() bool {
	return c.Phase == PhaseActions && c.Next >= len(c.Actions)
}

func (c *Combat) requirePhase(p Phase) error {
	if c.Phase != p {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, c.Phase, p)
	}
	return nil
}
