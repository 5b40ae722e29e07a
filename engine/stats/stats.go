// Package stats turns a unit's attributes, skills, statuses, passives, and
// talents into the derived modifier table, speed dice, and resource maxima.
// Recalculate is deterministic and draws no randomness.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// Attribute and skill keys.
const (
	AttrStrength  = "strength"
	AttrEndurance = "endurance"
	AttrAgility   = "agility"
	AttrIntellect = "intellect"
	AttrPsyche    = "psyche"

	SkillSpeed         = "speed"
	SkillMediumWeapons = "medium_weapons"
	SkillShields       = "shields"
	SkillAcrobatics    = "acrobatics"
)

var (
	attributeKeys = map[string]bool{
		AttrStrength: true, AttrEndurance: true, AttrAgility: true, AttrIntellect: true, AttrPsyche: true,
	}
	skillKeys = map[string]bool{
		SkillSpeed: true, SkillMediumWeapons: true, SkillShields: true, SkillAcrobatics: true,
	}
	modifierKeys = []string{
		types.ModPowerAttack, types.ModPowerMediumWeapon, types.ModPowerBlock, types.ModPowerEvade,
		types.ModDamageDeal, types.ModDamageTake, types.ModHealEfficiency, types.ModInitiative,
		types.ModTotalIntellect,
	}
)

// DefaultSpeed is used when a unit has no base speed range.
var DefaultSpeed = types.DiceRange{Min: 1, Max: 4}

// NewModifiers returns the accumulator with its fixed key set.
func NewModifiers() types.Modifiers {
	m := make(types.Modifiers, len(modifierKeys))
	for _, k := range modifierKeys {
		m[k] = 0
	}
	m[types.ModHealEfficiency] = 100
	return m
}

// bonuses accumulates everything routed out of on_calculate_stats.
type bonuses struct {
	attr  map[string]int
	skill map[string]int

	hpFlat, spFlat           int
	hpPct, spPct             int // status layer
	equipHPPct, equipSPPct   int // passive layer
	talentHPPct, talentSPPct int // talent layer
	staggerPct               int
}

// Recalculate rebuilds u.Mods, u.SpeedDice, and the resource maxima, then
// clamps current resources down to the new maxima. Returns one log line per
// nonzero contribution or rule.
func Recalculate(u *types.Unit, d *events.Dispatcher) []string {
	var log []string
	mods := NewModifiers()
	b := &bonuses{attr: map[string]int{}, skill: map[string]int{}}

	if d != nil {
		for _, c := range d.CalculateStats(u) {
			log = append(log, route(c, b, mods)...)
		}
	}

	attrs := effective(u.Attributes, b.attr)
	skills := effective(u.Skills, b.skill)

	for _, r := range Rules {
		v := attrs[r.Input]
		if r.Skill {
			v = skills[r.Input]
		}
		bonus := r.Calc(v)
		if bonus <= 0 {
			continue
		}
		switch r.Output {
		case "hp":
			b.hpFlat += bonus
		case "sp":
			b.spFlat += bonus
		default:
			mods[r.Output] += bonus
		}
		log = append(log, fmt.Sprintf("%s: %s %d → %s +%d", r.Name, r.Input, v, r.Output, bonus))
	}

	u.Mods = mods
	u.SpeedDice = SpeedDice(skills[SkillSpeed], u.BaseSpeed, mods[types.ModInitiative])
	u.MaxHP = LayeredMax(u.BaseHP, sum(u.HPRolls), b.hpFlat, b.hpPct, b.equipHPPct, b.talentHPPct)
	u.MaxSP = LayeredMax(u.BaseSP, sum(u.SPRolls), b.spFlat, b.spPct, b.equipSPPct, b.talentSPPct)
	u.MaxStagger = StaggerMax(u.MaxHP, b.staggerPct)
	state.ClampResources(u)

	return log
}

// Prime recalculates a freshly spawned unit and fills HP and stagger to
// their maxima. Sanity starts at 0.
func Prime(u *types.Unit, d *events.Dispatcher) []string {
	log := Recalculate(u, d)
	u.HP = u.MaxHP
	u.Stagger = u.MaxStagger
	u.SP = 0
	return log
}

// route sends each delta of one contribution to its destination.
func route(c events.StatContribution, b *bonuses, mods types.Modifiers) []string {
	var log []string
	keys := make([]string, 0, len(c.Deltas))
	for k := range c.Deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := c.Deltas[k]
		if v == 0 {
			continue
		}
		switch {
		case attributeKeys[k]:
			b.attr[k] += v
		case skillKeys[k]:
			b.skill[k] += v
		case k == "hp":
			b.hpFlat += v
		case k == "sp":
			b.spFlat += v
		case k == "hp_pct":
			*layer(c.Source, &b.hpPct, &b.equipHPPct, &b.talentHPPct) += v
		case k == "sp_pct":
			*layer(c.Source, &b.spPct, &b.equipSPPct, &b.talentSPPct) += v
		case k == "stagger_pct":
			b.staggerPct += v
		case k == "damage_taken":
			// A negative change to damage taken is damage reduction.
			mods[types.ModDamageTake] -= v
		case k == "damage_dealt":
			mods[types.ModDamageDeal] += v
		default:
			if _, ok := mods[k]; !ok {
				continue
			}
			mods[k] += v
		}
		log = append(log, fmt.Sprintf("%s: %s %+d", c.ID, k, v))
	}
	return log
}

func layer(src events.Source, status, equip, talent *int) *int {
	switch src {
	case events.SourcePassive:
		return equip
	case events.SourceTalent:
		return talent
	default:
		return status
	}
}

func effective(base, bonus map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(bonus))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range bonus {
		out[k] += v
	}
	return out
}

func sum(vs []int) int {
	total := 0
	for _, v := range vs {
		total += v
	}
	return total
}

// truncEpsilon absorbs float error before truncation, so 100 * 1.29 is 129.
const truncEpsilon = 1e-9

// LayeredMax computes
// ((base + rolls + flat) * (1 + pct/100)) * (1 + equip/100) * (1 + talent/100),
// truncated to an integer and floored at 0.
func LayeredMax(base, rolls, flat, pct, equipPct, talentPct int) int {
	v := float64(base + rolls + flat)
	v *= 1 + float64(pct)/100
	v *= 1 + float64(equipPct)/100
	v *= 1 + float64(talentPct)/100
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + truncEpsilon))
}

// StaggerMax is half the HP maximum scaled by its own percentage bonus.
func StaggerMax(maxHP, pct int) int {
	v := float64(maxHP) / 2 * (1 + float64(pct)/100)
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + truncEpsilon))
}

// Speed skill thresholds that each add one speed die.
var speedThresholds = [...]int{10, 20, 30}

const (
	speedPointsPerDie = 10
	speedPointsPerPip = 3
	fourthDieBonus    = 2
)

// SpeedDice returns one range per speed die. Each of the first three dice
// spends up to 10 skill points at +1 per 3 points; the fourth die, granted
// at the top threshold, gets a fixed bonus.
func SpeedDice(speed int, base types.DiceRange, initiative int) []types.DiceRange {
	if base.Max <= 0 {
		base = DefaultSpeed
	}
	count := 1
	for _, t := range speedThresholds {
		if speed >= t {
			count++
		}
	}
	remaining := speed
	if remaining < 0 {
		remaining = 0
	}

	dice := make([]types.DiceRange, 0, count)
	for i := 0; i < count; i++ {
		var bonus int
		if i == len(speedThresholds) {
			bonus = fourthDieBonus
		} else {
			spend := remaining
			if spend > speedPointsPerDie {
				spend = speedPointsPerDie
			}
			remaining -= spend
			bonus = spend / speedPointsPerPip
		}
		r := types.DiceRange{Min: base.Min + bonus, Max: base.Max + bonus + initiative}
		if r.Min < 1 {
			r.Min = 1
		}
		if r.Max < r.Min {
			r.Max = r.Min
		}
		dice = append(dice, r)
	}
	return dice
}
