// Package clash resolves opposed dice and unopposed hits, and applies the
// resulting HP and stagger damage.
package clash

import (
	"fmt"

	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/roll"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// Resolver rolls dice and applies damage. Host receives follow-up actions
// queued by hooks and may be nil.
type Resolver struct {
	Dispatcher *events.Dispatcher
	Source     roll.Source
	Host       hooks.Host
}

// RollDie rolls one die for owner against opponent, applies power
// modifiers for its kind, and dispatches on_roll. Paralysis rolls twice
// and keeps the lower value.
func (r *Resolver) RollDie(owner, opponent *types.Unit, card *types.Card, die types.Die) *roll.Context {
	raw := r.Source.NextInt(die.Min, die.Max)
	var second int
	disadvantage := state.GetStatus(owner, types.StatusParalysis) > 0
	if disadvantage {
		second = r.Source.NextInt(die.Min, die.Max)
	}
	first := raw
	if disadvantage && second < raw {
		raw = second
	}

	rc := roll.New(owner, opponent, card, die, raw)
	if disadvantage {
		rc.Note("paralysis: rolled %d and %d, kept %d", first, second, raw)
	}

	switch {
	case state.IsOffensive(die.Kind):
		rc.Add(owner.Mods[types.ModPowerAttack], "attack power")
		rc.Add(owner.Mods[types.ModPowerMediumWeapon], "weapon power")
	case die.Kind == types.Block:
		rc.Add(owner.Mods[types.ModPowerBlock], "block power")
	case die.Kind == types.Evade:
		rc.Add(owner.Mods[types.ModPowerEvade], "evade power")
	}

	r.dispatch(types.HookRoll, owner, opponent, rc)
	return rc
}

func (r *Resolver) dispatch(hook string, owner, opponent *types.Unit, rc *roll.Context) {
	if r.Dispatcher == nil {
		return
	}
	// With a roll context every hook writes to rc.Log.
	r.Dispatcher.Dispatch(hook, owner, opponent, rc, r.Host)
}

// Clash compares the dice of two cards position by position. A unit that
// dies or staggers mid-clash loses its remaining dice; the other side's
// remaining dice resolve unopposed.
func (r *Resolver) Clash(a, b *types.Unit, ca, cb *types.Card) []string {
	var log []string
	n := len(ca.Dice)
	if len(cb.Dice) > n {
		n = len(cb.Dice)
	}

	for i := 0; i < n; i++ {
		if state.IsDead(a) || state.IsDead(b) {
			break
		}
		da, okA := dieAt(a, ca, i)
		db, okB := dieAt(b, cb, i)

		switch {
		case okA && okB:
			log = append(log, r.clashDice(a, b, ca, cb, da, db)...)
		case okA:
			log = append(log, r.Unopposed(a, b, ca, da)...)
		case okB:
			log = append(log, r.Unopposed(b, a, cb, db)...)
		}
	}
	return log
}

// dieAt returns the i-th die of card, or false when the card has no die at
// that position or its owner can no longer use it.
func dieAt(owner *types.Unit, card *types.Card, i int) (types.Die, bool) {
	if i >= len(card.Dice) || state.IsStaggered(owner) {
		return types.Die{}, false
	}
	return card.Dice[i], true
}

func (r *Resolver) clashDice(a, b *types.Unit, ca, cb *types.Card, da, db types.Die) []string {
	ra := r.RollDie(a, b, ca, da)
	rb := r.RollDie(b, a, cb, db)
	va, vb := ra.Final(), rb.Final()

	log := []string{ra.String(), rb.String()}
	log = append(log, indent(ra.Log)...)
	log = append(log, indent(rb.Log)...)

	if va == vb {
		return append(log, fmt.Sprintf("draw at %d", va))
	}

	win, lose := ra, rb
	if vb > va {
		win, lose = rb, ra
	}
	margin := win.Final() - lose.Final()
	log = append(log, fmt.Sprintf("%s wins the clash by %d", win.Source.Name, margin))

	mark := len(win.Log)
	markLose := len(lose.Log)
	r.dispatch(types.HookClashWin, win.Source, lose.Source, win)
	r.dispatch(types.HookClashLose, lose.Source, win.Source, lose)
	log = append(log, indent(win.Log[mark:])...)
	log = append(log, indent(lose.Log[markLose:])...)

	return append(log, r.consequence(win, lose, margin)...)
}

// consequence applies the damage the kind matrix assigns to a clash win.
func (r *Resolver) consequence(win, lose *roll.Context, margin int) []string {
	defender := lose.Source
	switch {
	case state.IsOffensive(win.Die.Kind):
		base := win.Final()
		if lose.Die.Kind == types.Block {
			base = margin
		}
		return r.hit(win, defender, base)
	case win.Die.Kind == types.Block:
		d := r.ApplyDamage(win, defender, margin, true)
		return d.Log
	default:
		return []string{fmt.Sprintf("%s evades", win.Source.Name)}
	}
}

// Unopposed resolves a die with no opposing die. Offensive dice hit for
// their full value; defensive dice do nothing.
func (r *Resolver) Unopposed(attacker, defender *types.Unit, card *types.Card, die types.Die) []string {
	if !state.IsOffensive(die.Kind) {
		return []string{fmt.Sprintf("%s %s die has nothing to defend against", attacker.Name, die.Kind)}
	}
	rc := r.RollDie(attacker, defender, card, die)
	log := append([]string{rc.String()}, indent(rc.Log)...)
	return append(log, r.hit(rc, defender, rc.Final())...)
}

// OneSided resolves every die of card against defender with no opposition.
func (r *Resolver) OneSided(attacker, defender *types.Unit, card *types.Card) []string {
	var log []string
	for _, die := range card.Dice {
		if state.IsDead(attacker) || state.IsDead(defender) || state.IsStaggered(attacker) {
			break
		}
		log = append(log, r.Unopposed(attacker, defender, card, die)...)
	}
	return log
}

// hit applies damage and, unless the defender was immune, dispatches on_hit
// for the attacker.
func (r *Resolver) hit(rc *roll.Context, defender *types.Unit, base int) []string {
	d := r.ApplyDamage(rc, defender, base, false)
	if d.Immune {
		return d.Log
	}
	mark := len(rc.Log)
	r.dispatch(types.HookHit, rc.Source, defender, rc)
	return append(d.Log, indent(rc.Log[mark:])...)
}

// Damage reports what one ApplyDamage call did.
type Damage struct {
	Raw      int
	HP       int
	Stagger  int
	Absorbed int
	Immune   bool
	Broke    bool // this hit staggered the defender
	Log      []string
}

// ApplyDamage deals base damage from rc's die to defender. With
// staggerOnly, the value goes to stagger through the HP resistance table;
// otherwise it goes to HP, and to stagger through the stagger resistance
// table unless the defender was already staggered.
func (r *Resolver) ApplyDamage(rc *roll.Context, defender *types.Unit, base int, staggerOnly bool) Damage {
	var d Damage
	attacker := rc.Source
	kind := rc.Die.Kind

	if state.GetStatus(defender, types.StatusRedLycoris) > 0 {
		d.Immune = true
		d.Log = append(d.Log, fmt.Sprintf("%s is immune to damage", defender.Name))
		return d
	}

	raw := base
	raw += state.GetStatus(attacker, types.StatusDmgUp) - state.GetStatus(attacker, types.StatusDmgDown)
	raw += state.GetStatus(defender, types.StatusFragile) +
		state.GetStatus(defender, types.StatusVulnerability) -
		state.GetStatus(defender, types.StatusProtection)
	raw += attacker.Mods[types.ModDamageDeal] - defender.Mods[types.ModDamageTake]
	if raw < 0 {
		raw = 0
	}
	d.Raw = raw
	scaled := float64(raw) * rc.Multiplier

	wasStaggered := state.IsStaggered(defender)
	hpResist := state.ResistFor(defender.HPResist, kind)
	if wasStaggered {
		hpResist *= 2
	}

	if staggerOnly {
		d.Stagger = state.LoseStagger(defender, int(scaled*hpResist))
		d.Log = append(d.Log, fmt.Sprintf("%s takes %d stagger damage", defender.Name, d.Stagger))
		d.Broke = !wasStaggered && state.IsStaggered(defender)
		if d.Broke {
			d.Log = append(d.Log, fmt.Sprintf("%s is staggered", defender.Name))
		}
		return d
	}

	hp := int(scaled * hpResist)
	if barrier := state.GetStatus(defender, types.StatusBarrier); barrier > 0 && hp > 0 {
		d.Absorbed = state.ReduceStatus(defender, types.StatusBarrier, hp)
		hp -= d.Absorbed
		d.Log = append(d.Log, fmt.Sprintf("barrier absorbs %d", d.Absorbed))
	}
	d.HP = state.LoseHP(defender, hp)
	d.Log = append(d.Log, fmt.Sprintf("%s takes %d damage (HP %d/%d)", defender.Name, d.HP, defender.HP, defender.MaxHP))

	if !wasStaggered {
		// The stagger leg scales the raw value; crits only multiply HP damage.
		d.Stagger = state.LoseStagger(defender, int(float64(raw)*state.ResistFor(defender.StaggerResist, kind)))
		if d.Stagger > 0 {
			d.Log = append(d.Log, fmt.Sprintf("%s takes %d stagger damage", defender.Name, d.Stagger))
		}
		d.Broke = state.IsStaggered(defender)
		if d.Broke {
			d.Log = append(d.Log, fmt.Sprintf("%s is staggered", defender.Name))
		}
	}
	return d
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  " + l
	}
	return out
}
