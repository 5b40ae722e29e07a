package content

import (
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// Script effect ids.
const (
	ScriptInflict        = "inflict"
	ScriptPower          = "power"
	ScriptCrit           = "crit"
	ScriptHeal           = "heal"
	ScriptRecoverStagger = "recover_stagger"
	ScriptGainSP         = "gain_sp"
	ScriptCounter        = "counter"
	ScriptBuff           = "buff"
)

func scripts() map[string]hooks.Effect {
	return map[string]hooks.Effect{
		ScriptInflict:        hooks.EffectFunc(inflict),
		ScriptPower:          hooks.EffectFunc(power),
		ScriptCrit:           hooks.EffectFunc(crit),
		ScriptHeal:           hooks.EffectFunc(heal),
		ScriptRecoverStagger: hooks.EffectFunc(recoverStagger),
		ScriptGainSP:         hooks.EffectFunc(gainSP),
		ScriptCounter:        hooks.EffectFunc(counter),
		ScriptBuff:           hooks.EffectFunc(buff),
	}
}

// recipient resolves the "target" parameter: "self" or the opponent.
func recipient(h *hooks.Hook, params map[string]any) *types.Unit {
	if hooks.StringParam(params, "target", "target") == "self" {
		return h.Owner
	}
	return h.Opponent
}

func inflict(h *hooks.Hook, params map[string]any) {
	id := types.StatusID(hooks.StringParam(params, "status", ""))
	amount := hooks.IntParam(params, "amount", 1)
	u := recipient(h, params)
	if id == "" || u == nil || amount <= 0 {
		return
	}
	delay := hooks.IntParam(params, "delay", 0)
	state.AddStatus(u, id, amount, hooks.IntParam(params, "duration", 0), delay)
	if delay > 0 {
		h.Logf("inflict: %s gains %d %s in %d turn(s)", u.Name, amount, id, delay)
		return
	}
	h.Logf("inflict: %s gains %d %s", u.Name, amount, id)
}

func power(h *hooks.Hook, params map[string]any) {
	if h.Roll == nil {
		return
	}
	h.Roll.Add(hooks.IntParam(params, "amount", 1), "power")
}

func crit(h *hooks.Hook, params map[string]any) {
	if h.Roll == nil {
		return
	}
	h.Roll.Scale(hooks.FloatParam(params, "multiplier", 1.5), "critical")
}

func heal(h *hooks.Hook, params map[string]any) {
	u := recipientSelf(h, params)
	eff, ok := u.Mods[types.ModHealEfficiency]
	if !ok {
		eff = 100
	}
	amount := hooks.IntParam(params, "amount", 0) * eff / 100
	healed := state.Heal(u, amount)
	h.Logf("heal: %s recovers %d HP", u.Name, healed)
}

func recoverStagger(h *hooks.Hook, params map[string]any) {
	u := recipientSelf(h, params)
	n := state.RecoverStagger(u, hooks.IntParam(params, "amount", 0))
	h.Logf("recover: %s recovers %d stagger", u.Name, n)
}

func gainSP(h *hooks.Hook, params map[string]any) {
	u := recipientSelf(h, params)
	before := u.SP
	state.AdjustSP(u, hooks.IntParam(params, "amount", 1))
	h.Logf("sanity: %s %d → %d", u.Name, before, u.SP)
}

// counter queues a one-sided follow-up die for the owner.
func counter(h *hooks.Hook, params map[string]any) {
	if h.Host == nil {
		return
	}
	die := types.Die{
		Kind: types.DieKind(hooks.StringParam(params, "kind", string(types.Slash))),
		Min:  hooks.IntParam(params, "min", 1),
		Max:  hooks.IntParam(params, "max", 4),
	}
	h.Host.QueueFollowUp(h.Owner, die, "counter")
	h.Logf("counter: %s readies a %s die [%d-%d]", h.Owner.Name, die.Kind, die.Min, die.Max)
}

func buff(h *hooks.Hook, params map[string]any) {
	name := hooks.StringParam(params, "name", "")
	turns := hooks.IntParam(params, "turns", 1)
	if name == "" {
		return
	}
	u := recipientSelf(h, params)
	state.AddBuff(u, name, turns)
	h.Logf("buff: %s gains %s for %d turn(s)", u.Name, name, turns)
}

// recipientSelf is recipient with "self" as the default.
func recipientSelf(h *hooks.Hook, params map[string]any) *types.Unit {
	if hooks.StringParam(params, "target", "self") == "target" && h.Opponent != nil {
		return h.Opponent
	}
	return h.Owner
}
