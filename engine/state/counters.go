package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/clashcore/types"
)

// AddBuff grants a buff for the given number of turns. An existing buff
// keeps whichever duration is longer.
func AddBuff(u *types.Unit, name string, turns int) {
	if turns <= 0 || name == "" {
		return
	}
	if u.Buffs == nil {
		u.Buffs = map[string]int{}
	}
	if u.Buffs[name] < turns {
		u.Buffs[name] = turns
	}
}

// HasBuff reports whether the unit currently holds a buff.
func HasBuff(u *types.Unit, name string) bool {
	return u.Buffs[name] > 0
}

// ClearBuffs drops every buff.
func ClearBuffs(u *types.Unit) {
	u.Buffs = map[string]int{}
}

// SetCooldown puts a card on cooldown.
func SetCooldown(u *types.Unit, cardID string, turns int) {
	if turns <= 0 {
		return
	}
	if u.Cooldowns == nil {
		u.Cooldowns = map[string]int{}
	}
	u.Cooldowns[cardID] = turns
}

// OnCooldown reports whether a card is still cooling down.
func OnCooldown(u *types.Unit, cardID string) bool {
	return u.Cooldowns[cardID] > 0
}

// TickCounters decrements buffs and cooldowns, removing those that reach 0.
// Returns log lines in a stable order.
func TickCounters(u *types.Unit) []string {
	var log []string
	for _, name := range sortedKeys(u.Buffs) {
		u.Buffs[name]--
		if u.Buffs[name] <= 0 {
			delete(u.Buffs, name)
			log = append(log, fmt.Sprintf("%s: %s fades", u.Name, name))
		}
	}
	for _, id := range sortedKeys(u.Cooldowns) {
		u.Cooldowns[id]--
		if u.Cooldowns[id] <= 0 {
			delete(u.Cooldowns, id)
			log = append(log, fmt.Sprintf("%s: %s is ready", u.Name, id))
		}
	}
	return log
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
