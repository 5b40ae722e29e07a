// Package save implements YAML checkpoints of a combat session. A
// checkpoint taken between steps resumes with identical rolls.
package save

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/initiative"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// FormatVersion is written into every checkpoint.
const FormatVersion = "1"

// ErrNotCheckpointable is returned for sessions not driven by their RNG.
var ErrNotCheckpointable = errors.New("save: session does not use a seeded RNG")

// Checkpoint is the YAML-serializable session state.
type Checkpoint struct {
	Version  string               `yaml:"version"`
	Seed     int64                `yaml:"seed"`
	Position int64                `yaml:"rng_position"`
	Turn     int                  `yaml:"turn"`
	Phase    engine.Phase         `yaml:"phase"`
	Left     UnitState            `yaml:"left"`
	Right    UnitState            `yaml:"right"`
	Actions  []initiative.Action  `yaml:"actions,omitempty"`
	Next     int                  `yaml:"next"`
	Consumed []initiative.SlotRef `yaml:"consumed,omitempty"`
}

// UnitState is a unit plus the parts of it the unit's own YAML tags skip.
type UnitState struct {
	Unit      types.Unit        `yaml:"unit"`
	Statuses  []StatusState     `yaml:"statuses,omitempty"`
	Mods      types.Modifiers   `yaml:"mods,omitempty"`
	SpeedDice []types.DiceRange `yaml:"speed_dice,omitempty"`
}

// StatusState is every stack of one status, in insertion order.
type StatusState struct {
	ID     types.StatusID      `yaml:"id"`
	Stacks []types.StatusStack `yaml:"stacks"`
}

// Save serializes a session to YAML bytes.
func Save(c *engine.Combat) ([]byte, error) {
	cp, err := Take(c)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(cp)
}

// Take captures a session without serializing it.
func Take(c *engine.Combat) (*Checkpoint, error) {
	if !c.Checkpointable() {
		return nil, ErrNotCheckpointable
	}
	cp := &Checkpoint{
		Version:  FormatVersion,
		Seed:     c.RNG.Seed(),
		Position: c.RNG.Position(),
		Turn:     c.Turn,
		Phase:    c.Phase,
		Left:     captureUnit(c.Left),
		Right:    captureUnit(c.Right),
		Actions:  append([]initiative.Action(nil), c.Actions...),
		Next:     c.Next,
	}
	for _, side := range []initiative.Side{initiative.Left, initiative.Right} {
		for i := range c.Unit(side).Slots {
			ref := initiative.SlotRef{Side: side, Slot: i}
			if c.Consumed[ref] {
				cp.Consumed = append(cp.Consumed, ref)
			}
		}
	}
	return cp, nil
}

func captureUnit(u *types.Unit) UnitState {
	us := UnitState{Unit: *u, Mods: u.Mods, SpeedDice: u.SpeedDice}
	for _, id := range u.Statuses.Order {
		us.Statuses = append(us.Statuses, StatusState{ID: id, Stacks: state.StatusStacks(u, id)})
	}
	return us
}

// Load deserializes YAML bytes into a Checkpoint.
func Load(data []byte) (*Checkpoint, error) {
	var cp Checkpoint
	if err := yaml.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}
	if cp.Version != FormatVersion {
		return nil, fmt.Errorf("checkpoint version %q, want %q", cp.Version, FormatVersion)
	}
	switch cp.Phase {
	case engine.PhaseIdle, engine.PhaseAssign, engine.PhaseActions:
	default:
		return nil, fmt.Errorf("checkpoint phase %q is not valid", cp.Phase)
	}
	if cp.Next < 0 || cp.Next > len(cp.Actions) {
		return nil, fmt.Errorf("checkpoint next action %d out of range", cp.Next)
	}
	return &cp, nil
}

// Restore rebuilds a session from a checkpoint. The RNG is replayed to the
// recorded position.
func Restore(cp *Checkpoint, reg *hooks.Registry, opts ...engine.Option) *engine.Combat {
	left, right := restoreUnit(cp.Left), restoreUnit(cp.Right)
	opts = append(opts, engine.WithRNG(engine.RestoreRNG(cp.Seed, cp.Position)))
	c := engine.New(left, right, reg, cp.Seed, opts...)
	c.Turn = cp.Turn
	c.Phase = cp.Phase
	c.Actions = append([]initiative.Action(nil), cp.Actions...)
	c.Next = cp.Next
	for _, ref := range cp.Consumed {
		c.Consumed[ref] = true
	}
	return c
}

func restoreUnit(us UnitState) *types.Unit {
	u := us.Unit
	u.Statuses = types.StatusTable{}
	for _, s := range us.Statuses {
		state.RestoreStatus(&u, s.ID, s.Stacks)
	}
	u.Mods = us.Mods
	u.SpeedDice = us.SpeedDice
	if u.Cooldowns == nil {
		u.Cooldowns = map[string]int{}
	}
	if u.Buffs == nil {
		u.Buffs = map[string]int{}
	}
	return &u
}

// WriteFile saves a session to path.
func WriteFile(path string, c *engine.Combat) error {
	data, err := Save(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}

// ReadFile loads a checkpoint from path.
func ReadFile(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	return Load(data)
}
