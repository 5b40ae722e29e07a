// Package types defines the shared data structures for the ClashCore engine.
// This package contains only type definitions; it has no logic and no methods.
package types

// DieKind is one of the five damage/defense kinds a die can belong to.
type DieKind string

const (
	Slash  DieKind = "slash"
	Pierce DieKind = "pierce"
	Blunt  DieKind = "blunt"
	Block  DieKind = "block"
	Evade  DieKind = "evade"
)

// Hook names shared by dispatch, card scripts, and content files.
const (
	HookRoll        = "on_roll"
	HookHit         = "on_hit"
	HookClashWin    = "on_clash_win"
	HookClashLose   = "on_clash_lose"
	HookCombatStart = "on_combat_start"
	HookCombatEnd   = "on_combat_end"
	HookTurnEnd     = "on_turn_end"
	HookUse         = "on_use"
	HookCalcStats   = "on_calculate_stats"
)

// ScriptEntry names a registered effect and its parameter bag.
type ScriptEntry struct {
	Effect string         `yaml:"effect"`
	Params map[string]any `yaml:"params,omitempty"`
	When   string         `yaml:"when,omitempty"` // optional CEL guard
}

// Die is a single die on a card. Min and Max are inclusive.
type Die struct {
	Kind    DieKind                  `yaml:"kind"`
	Min     int                      `yaml:"min"`
	Max     int                      `yaml:"max"`
	Scripts map[string][]ScriptEntry `yaml:"scripts,omitempty"` // hook name → entries
}

// Card is a named bundle of dice plus triggered scripts.
type Card struct {
	ID       string                   `yaml:"id"`
	Name     string                   `yaml:"name"`
	Cooldown int                      `yaml:"cooldown,omitempty"`
	Dice     []Die                    `yaml:"dice"`
	Scripts  map[string][]ScriptEntry `yaml:"scripts,omitempty"` // trigger → entries
}

// DiceRange is an inclusive [Min, Max] roll range.
type DiceRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Resistances holds one multiplier per physical damage kind.
type Resistances struct {
	Slash  float64 `yaml:"slash"`
	Pierce float64 `yaml:"pierce"`
	Blunt  float64 `yaml:"blunt"`
}

// StatusID identifies a status. Built-in ids live in a closed set;
// content may define additional ids at runtime.
type StatusID string

const (
	StatusStrength      StatusID = "strength"
	StatusEndurance     StatusID = "endurance"
	StatusHaste         StatusID = "haste"
	StatusSlow          StatusID = "slow"
	StatusBind          StatusID = "bind"
	StatusBleed         StatusID = "bleed"
	StatusBurn          StatusID = "burn"
	StatusBarrier       StatusID = "barrier"
	StatusRedLycoris    StatusID = "red_lycoris"
	StatusFragile       StatusID = "fragile"
	StatusVulnerability StatusID = "vulnerability"
	StatusProtection    StatusID = "protection"
	StatusDmgUp         StatusID = "dmg_up"
	StatusDmgDown       StatusID = "dmg_down"
	StatusParalysis     StatusID = "paralysis"
	StatusSmoke         StatusID = "smoke"
	StatusRage          StatusID = "rage"
)

// KnownStatuses lists the closed status set in table order.
var KnownStatuses = [...]StatusID{
	StatusStrength, StatusEndurance, StatusHaste, StatusSlow, StatusBind,
	StatusBleed, StatusBurn, StatusBarrier, StatusRedLycoris, StatusFragile,
	StatusVulnerability, StatusProtection, StatusDmgUp, StatusDmgDown,
	StatusParalysis, StatusSmoke, StatusRage,
}

// NumKnownStatuses is the size of the closed status table.
const NumKnownStatuses = len(KnownStatuses)

// StatusStack is one application of a status.
type StatusStack struct {
	Amount   int `yaml:"amount"`
	Duration int `yaml:"duration,omitempty"` // 0 = until consumed
	Delay    int `yaml:"delay,omitempty"`    // >0 = pending activation
}

// StatusTable holds a unit's statuses: built-ins indexed by position in
// KnownStatuses, content-defined ones by id.
type StatusTable struct {
	Known  [NumKnownStatuses][]StatusStack
	Custom map[StatusID][]StatusStack
	Order  []StatusID // insertion order
}

// Modifier keys of the derived modifier table.
const (
	ModPowerAttack       = "power_attack"
	ModPowerMediumWeapon = "power_medium_weapon"
	ModPowerBlock        = "power_block"
	ModPowerEvade        = "power_evade"
	ModDamageDeal        = "damage_deal"
	ModDamageTake        = "damage_take"
	ModHealEfficiency    = "heal_efficiency"
	ModInitiative        = "initiative"
	ModTotalIntellect    = "total_intellect"
)

// Modifiers is the flat modifier table derived each turn.
type Modifiers map[string]int

// Slot is one rolled speed die for the current turn.
type Slot struct {
	Speed   int       `yaml:"speed"`
	Range   DiceRange `yaml:"range"`
	Card    *Card     `yaml:"card,omitempty"`
	Target  int       `yaml:"target"` // opposing slot index, -1 = none
	Aggro   bool      `yaml:"aggro,omitempty"`
	Stunned bool      `yaml:"stunned,omitempty"`
}

// UnitDef is an immutable unit template loaded from content.
type UnitDef struct {
	ID            string
	Name          string
	Level         int
	HP            int
	SP            int
	HPRolls       []int
	SPRolls       []int
	Attributes    map[string]int
	Skills        map[string]int
	BaseSpeed     DiceRange
	HPResist      Resistances
	StaggerResist Resistances
	Passives      []string
	Talents       []string
	Deck          []string // card IDs
}

// Unit is a combatant's runtime state.
type Unit struct {
	ID    string `yaml:"id"`
	DefID string `yaml:"def_id"`
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`

	HP         int `yaml:"hp"`
	MaxHP      int `yaml:"max_hp"`
	SP         int `yaml:"sp"`
	MaxSP      int `yaml:"max_sp"`
	Stagger    int `yaml:"stagger"`
	MaxStagger int `yaml:"max_stagger"`

	BaseHP  int   `yaml:"base_hp"`
	BaseSP  int   `yaml:"base_sp"`
	HPRolls []int `yaml:"hp_rolls,omitempty"`
	SPRolls []int `yaml:"sp_rolls,omitempty"`

	Attributes map[string]int `yaml:"attributes,omitempty"`
	Skills     map[string]int `yaml:"skills,omitempty"`
	BaseSpeed  DiceRange      `yaml:"base_speed"`

	HPResist      Resistances `yaml:"hp_resist"`
	StaggerResist Resistances `yaml:"stagger_resist"`

	Statuses StatusTable `yaml:"-"` // checkpointed by engine/save
	Passives []string    `yaml:"passives,omitempty"`
	Talents  []string    `yaml:"talents,omitempty"`
	Deck     []Card      `yaml:"deck,omitempty"`

	Cooldowns map[string]int `yaml:"cooldowns,omitempty"` // card ID → turns left
	Buffs     map[string]int `yaml:"buffs,omitempty"`     // buff name → turns left

	// Derived each turn, never carried across turns.
	Mods      Modifiers   `yaml:"-"`
	SpeedDice []DiceRange `yaml:"-"`
	Slots     []Slot      `yaml:"slots,omitempty"`
}
