package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/clashcore/engine/initiative"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/engine/stats"
	"github.com/nathoo/clashcore/types"
)

// BeginTurn recalculates both units and rolls their speed dice, left
// first. The session moves to the assign phase.
func (c *Combat) BeginTurn() ([]string, error) {
	if err := c.requirePhase(PhaseIdle); err != nil {
		return nil, err
	}
	log := []string{fmt.Sprintf("Turn %d", c.Turn)}
	for _, u := range []*types.Unit{c.Left, c.Right} {
		for _, l := range stats.Recalculate(u, c.dispatcher) {
			c.logger.Debug("stat", zap.String("unit", u.Name), zap.String("rule", l))
		}
	}
	log = append(log, initiative.Roll(c.Left, c.source)...)
	log = append(log, initiative.Roll(c.Right, c.source)...)

	c.Actions = nil
	c.Next = 0
	c.Consumed = map[initiative.SlotRef]bool{}
	c.Phase = PhaseAssign
	c.logger.Info("turn started", zap.Int("turn", c.Turn),
		zap.Int("left_slots", len(c.Left.Slots)), zap.Int("right_slots", len(c.Right.Slots)))
	return log, nil
}

// Assign puts a deck card into one of side's slots, aimed at an opposing
// slot.
func (c *Combat) Assign(side initiative.Side, slot int, cardID string, target int, aggro bool) error {
	if err := c.requirePhase(PhaseAssign); err != nil {
		return err
	}
	u, opp := c.Unit(side), c.Unit(side.Opponent())
	if slot < 0 || slot >= len(u.Slots) || u.Slots[slot].Stunned {
		return fmt.Errorf("%w: %s slot %d", ErrBadSlot, side, slot)
	}
	if target < 0 || target >= len(opp.Slots) {
		return fmt.Errorf("%w: target slot %d", ErrBadSlot, target)
	}
	card, ok := state.FindCard(u, cardID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCard, cardID)
	}
	if state.OnCooldown(u, cardID) {
		return fmt.Errorf("%w: %q (%d turns)", ErrOnCooldown, cardID, u.Cooldowns[cardID])
	}
	cp := state.CloneCard(*card)
	s := &u.Slots[slot]
	s.Card = &cp
	s.Target = target
	s.Aggro = aggro
	return nil
}

// AutoAssign fills side's open slots from its deck in order, skipping cards
// on cooldown. Slot i targets opposing slot i modulo the opponent's slot
// count.
func (c *Combat) AutoAssign(side initiative.Side) error {
	if err := c.requirePhase(PhaseAssign); err != nil {
		return err
	}
	u, opp := c.Unit(side), c.Unit(side.Opponent())
	var ready []string
	for _, card := range u.Deck {
		if !state.OnCooldown(u, card.ID) {
			ready = append(ready, card.ID)
		}
	}
	if len(ready) == 0 || len(opp.Slots) == 0 {
		return nil
	}
	next := 0
	for i := range u.Slots {
		if u.Slots[i].Stunned || u.Slots[i].Card != nil {
			continue
		}
		id := ready[next%len(ready)]
		next++
		if err := c.Assign(side, i, id, i%len(opp.Slots), false); err != nil {
			return err
		}
	}
	return nil
}

// Commit redirects both sides from one snapshot, orders the actions, and
// dispatches on_combat_start to left then right.
func (c *Combat) Commit() ([]string, error) {
	if err := c.requirePhase(PhaseAssign); err != nil {
		return nil, err
	}
	log := initiative.ComputeRedirections(c.Left, c.Right)
	c.Actions = initiative.BuildActions(c.Left, c.Right, c.source)
	c.Next = 0
	c.Phase = PhaseActions

	log = append(log, c.dispatcher.Dispatch(types.HookCombatStart, c.Left, c.Right, nil, c)...)
	log = append(log, c.dispatcher.Dispatch(types.HookCombatStart, c.Right, c.Left, nil, c)...)
	c.logger.Debug("actions ordered", zap.Int("turn", c.Turn), zap.Int("actions", len(c.Actions)))
	return log, nil
}

// Step resolves the next action in order.
func (c *Combat) Step() (ActionResult, error) {
	if err := c.requirePhase(PhaseActions); err != nil {
		return ActionResult{}, err
	}
	if c.Done() {
		return ActionResult{}, fmt.Errorf("%w: no actions left", ErrWrongPhase)
	}
	a := c.Actions[c.Next]
	c.Next++

	res := c.resolve(a)
	c.logger.Debug("action resolved",
		zap.Int("turn", c.Turn),
		zap.String("side", a.Side.String()),
		zap.Int("slot", a.Slot),
		zap.String("outcome", string(res.Outcome)))
	return res, nil
}

func (c *Combat) resolve(a initiative.Action) ActionResult {
	res := ActionResult{Action: a}
	u, opp := c.Unit(a.Side), c.Unit(a.Side.Opponent())

	skip := func(format string, args ...any) ActionResult {
		res.Outcome = OutcomeSkipped
		res.Log = append(res.Log, fmt.Sprintf(format, args...))
		return res
	}

	if state.IsDead(u) {
		return skip("%s has fallen", u.Name)
	}
	if state.IsStaggered(u) {
		return skip("%s is staggered", u.Name)
	}

	if a.IsFollowUp() {
		if state.IsDead(opp) {
			return skip("%s's %s has no target", u.Name, a.Reason)
		}
		card := &types.Card{ID: a.Reason, Name: a.Reason, Dice: []types.Die{*a.FollowUp}}
		res.Outcome = OutcomeOneSide
		res.Log = append(res.Log, fmt.Sprintf("%s follows up (%s)", u.Name, a.Reason))
		res.Log = append(res.Log, c.resolver.OneSided(u, opp, card)...)
		return res
	}

	self := initiative.SlotRef{Side: a.Side, Slot: a.Slot}
	if c.Consumed[self] {
		return skip("%s slot %d already resolved", u.Name, a.Slot)
	}
	if a.Slot < 0 || a.Slot >= len(u.Slots) {
		return skip("%s slot %d does not exist", u.Name, a.Slot)
	}
	c.Consumed[self] = true
	slot := u.Slots[a.Slot]

	if state.IsDead(opp) || slot.Target < 0 || slot.Target >= len(opp.Slots) {
		return skip("%s %s has no target", u.Name, slot.Card.Name)
	}

	other := initiative.SlotRef{Side: a.Side.Opponent(), Slot: slot.Target}
	ts := opp.Slots[slot.Target]
	res.Log = append(res.Log, c.useCard(u, opp, slot.Card)...)

	if ts.Target == a.Slot && !c.Consumed[other] && initiative.Playable(ts) && !state.IsStaggered(opp) {
		c.Consumed[other] = true
		res.Outcome = OutcomeClash
		res.Log = append(res.Log, c.useCard(opp, u, ts.Card)...)
		res.Log = append(res.Log, fmt.Sprintf("%s %s clashes with %s %s", u.Name, slot.Card.Name, opp.Name, ts.Card.Name))
		res.Log = append(res.Log, c.resolver.Clash(u, opp, slot.Card, ts.Card)...)
		return res
	}

	res.Outcome = OutcomeOneSide
	res.Log = append(res.Log, fmt.Sprintf("%s %s strikes %s", u.Name, slot.Card.Name, opp.Name))
	res.Log = append(res.Log, c.resolver.OneSided(u, opp, slot.Card)...)
	return res
}

// useCard starts the card's cooldown and runs its on_use scripts. A
// cooldown of N blocks the card for the N turns after the one it was used
// in, so the counter gets one extra tick for the current turn's end.
func (c *Combat) useCard(u, opp *types.Unit, card *types.Card) []string {
	if card.Cooldown > 0 {
		state.SetCooldown(u, card.ID, card.Cooldown+1)
	}
	return c.dispatcher.RunCardScripts(types.HookUse, card, u, opp, c)
}

// EndTurn dispatches on_combat_end, runs the on_combat_end scripts of the
// cards that acted, ticks statuses and counters, and advances the turn. A
// unit that spent the whole turn staggered recovers its full gauge. Every
// action must have resolved first.
func (c *Combat) EndTurn() ([]string, error) {
	if err := c.requirePhase(PhaseActions); err != nil {
		return nil, err
	}
	if !c.Done() {
		return nil, fmt.Errorf("%w: %d action(s) unresolved", ErrWrongPhase, len(c.Actions)-c.Next)
	}
	c.ending = true
	defer func() { c.ending = false }()
	var log []string
	sides := []initiative.Side{initiative.Left, initiative.Right}

	for _, s := range sides {
		u, opp := c.Unit(s), c.Unit(s.Opponent())
		log = append(log, c.dispatcher.Dispatch(types.HookCombatEnd, u, opp, nil, c)...)
	}
	for _, s := range sides {
		u, opp := c.Unit(s), c.Unit(s.Opponent())
		for i, slot := range u.Slots {
			if c.Consumed[initiative.SlotRef{Side: s, Slot: i}] && slot.Card != nil {
				log = append(log, c.dispatcher.RunCardScripts(types.HookCombatEnd, slot.Card, u, opp, c)...)
			}
		}
	}
	for _, s := range sides {
		u, opp := c.Unit(s), c.Unit(s.Opponent())
		log = append(log, c.dispatcher.Dispatch(types.HookTurnEnd, u, opp, nil, c)...)
		log = append(log, state.TickStatuses(u)...)
		log = append(log, state.TickCounters(u)...)
		if state.IsDead(u) {
			state.ClearBuffs(u)
		}
		if len(u.Slots) > 0 && u.Slots[0].Stunned && !state.IsDead(u) {
			state.SetStagger(u, u.MaxStagger)
			log = append(log, fmt.Sprintf("%s recovers from stagger", u.Name))
		}
		u.Slots = nil
	}

	c.logger.Info("turn ended", zap.Int("turn", c.Turn),
		zap.Int("left_hp", c.Left.HP), zap.Int("right_hp", c.Right.HP))
	c.Turn++
	c.Phase = PhaseIdle
	c.Actions = nil
	c.Next = 0
	c.Consumed = map[initiative.SlotRef]bool{}
	return log, nil
}

// RunTurn plays a whole turn with both sides auto-assigned.
func (c *Combat) RunTurn() ([]string, error) {
	log, err := c.BeginTurn()
	if err != nil {
		return nil, err
	}
	for _, s := range []initiative.Side{initiative.Left, initiative.Right} {
		if err := c.AutoAssign(s); err != nil {
			return log, err
		}
	}
	more, err := c.Commit()
	if err != nil {
		return log, err
	}
	log = append(log, more...)
	for !c.Done() {
		res, err := c.Step()
		if err != nil {
			return log, err
		}
		log = append(log, res.Log...)
	}
	more, err = c.EndTurn()
	if err != nil {
		return log, err
	}
	return append(log, more...), nil
}
