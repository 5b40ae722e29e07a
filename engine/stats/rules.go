package stats

import "github.com/nathoo/clashcore/types"

// Rule converts one attribute or skill total into a bonus. Output is a
// modifier key, or "hp"/"sp" for a flat maxima bonus.
type Rule struct {
	Name   string
	Input  string
	Skill  bool
	Output string
	Calc   func(v int) int
}

// Rules are applied in order after bonuses are routed. Division is floor
// unless the rule says otherwise.
var Rules = []Rule{
	{Name: "strength_power", Input: AttrStrength, Output: types.ModPowerAttack, Calc: per(5)},
	{Name: "endurance_block", Input: AttrEndurance, Output: types.ModPowerBlock, Calc: per(5)},
	{Name: "endurance_hp", Input: AttrEndurance, Output: "hp", Calc: times(2)},
	{Name: "agility_initiative", Input: AttrAgility, Output: types.ModInitiative, Calc: per(3)},
	{Name: "agility_evade", Input: AttrAgility, Output: types.ModPowerEvade, Calc: per(5)},
	{Name: "intellect_total", Input: AttrIntellect, Output: types.ModTotalIntellect, Calc: times(1)},
	{Name: "intellect_heal", Input: AttrIntellect, Output: types.ModHealEfficiency, Calc: func(v int) int { return v / 5 * 10 }},
	{Name: "psyche_sp", Input: AttrPsyche, Output: "sp", Calc: times(2)},
	{Name: "medium_weapons_power", Input: SkillMediumWeapons, Skill: true, Output: types.ModPowerMediumWeapon, Calc: per(3)},
	{Name: "shields_block", Input: SkillShields, Skill: true, Output: types.ModPowerBlock, Calc: perCeil(4)},
	{Name: "acrobatics_evade", Input: SkillAcrobatics, Skill: true, Output: types.ModPowerEvade, Calc: per(3)},
}

// RuleByName returns a rule for direct testing.
func RuleByName(name string) (Rule, bool) {
	for _, r := range Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

func per(n int) func(int) int {
	return func(v int) int {
		if v <= 0 {
			return 0
		}
		return v / n
	}
}

func perCeil(n int) func(int) int {
	return func(v int) int {
		if v <= 0 {
			return 0
		}
		return (v + n - 1) / n
	}
}

func times(n int) func(int) int {
	return func(v int) int { return v * n }
}
