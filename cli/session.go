package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/initiative"
	"github.com/nathoo/clashcore/engine/save"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/types"
)

// DefaultMaxTurns caps automatic play when no turn limit is configured.
const DefaultMaxTurns = 100

// Session interprets player commands against a combat. The player controls
// the left unit; the right unit always auto-assigns. The CLI and the TUI
// both drive a Session.
type Session struct {
	Combat   *engine.Combat
	Registry *hooks.Registry
	SaveDir  string
	Trace    bool // show per-roll detail lines
}

// Exec runs one input line. Returns output lines and whether to quit.
func (s *Session) Exec(input string) ([]string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, false
	}
	if strings.HasPrefix(input, "/") {
		return s.meta(input)
	}

	cmd := Parse(input)
	switch cmd.Verb {
	case "turn":
		return s.BeginTurn(), false
	case "assign":
		return s.assign(cmd.Args, cmd.Aggro), false
	case "auto":
		if err := s.Combat.AutoAssign(initiative.Left); err != nil {
			return []string{errorLine(err)}, false
		}
		return s.SlotLines(initiative.Left), false
	case "commit":
		return s.commit(), false
	case "step":
		return s.Step(), false
	case "end":
		return s.FinishTurn(), false
	case "next":
		return s.NextTurn(), false
	case "slots":
		return append(s.SlotLines(initiative.Left), s.SlotLines(initiative.Right)...), false
	case "deck":
		return s.DeckLines(), false
	default:
		return []string{fmt.Sprintf("I don't know %q. Type /help for commands.", cmd.Verb)}, false
	}
}

// BeginTurn rolls speed for a new turn and auto-assigns the right unit.
func (s *Session) BeginTurn() []string {
	if s.Combat.Over() {
		return s.OutcomeLines()
	}
	log, err := s.Combat.BeginTurn()
	if err != nil {
		return []string{errorLine(err)}
	}
	if err := s.Combat.AutoAssign(initiative.Right); err != nil {
		return append(s.filter(log), errorLine(err))
	}
	out := s.filter(log)
	out = append(out, s.SlotLines(initiative.Left)...)
	return append(out, s.SlotLines(initiative.Right)...)
}

func (s *Session) assign(args []string, aggro bool) []string {
	if len(args) < 2 {
		return []string{"Usage: assign <slot> <card> [target] [aggro]"}
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{fmt.Sprintf("Slot %q is not a number.", args[0])}
	}
	target := slot
	if len(args) > 2 {
		if target, err = strconv.Atoi(args[2]); err != nil {
			return []string{fmt.Sprintf("Target %q is not a number.", args[2])}
		}
	} else if n := len(s.Combat.Right.Slots); n > 0 {
		target = slot % n
	}
	if err := s.Combat.Assign(initiative.Left, slot, args[1], target, aggro); err != nil {
		return []string{errorLine(err)}
	}
	return s.SlotLines(initiative.Left)
}

func (s *Session) commit() []string {
	log, err := s.Combat.Commit()
	if err != nil {
		return []string{errorLine(err)}
	}
	out := s.filter(log)
	return append(out, fmt.Sprintf("%d action(s) queued.", len(s.Combat.Actions)))
}

// Step resolves one action, committing the assignments first if needed.
func (s *Session) Step() []string {
	var out []string
	switch s.Combat.Phase {
	case engine.PhaseIdle:
		return []string{"No turn in progress. Type 'turn' to start one."}
	case engine.PhaseAssign:
		out = s.commit()
	}
	if s.Combat.Done() {
		return append(out, "Every action has resolved. Type 'end' to finish the turn.")
	}
	res, err := s.Combat.Step()
	if err != nil {
		return append(out, errorLine(err))
	}
	return append(out, s.filter(res.Log)...)
}

// FinishTurn resolves whatever is left of the current turn and ends it.
func (s *Session) FinishTurn() []string {
	var out []string
	switch s.Combat.Phase {
	case engine.PhaseIdle:
		return []string{"No turn in progress. Type 'turn' to start one."}
	case engine.PhaseAssign:
		out = s.commit()
	}
	for !s.Combat.Done() {
		res, err := s.Combat.Step()
		if err != nil {
			return append(out, errorLine(err))
		}
		out = append(out, s.filter(res.Log)...)
	}
	log, err := s.Combat.EndTurn()
	if err != nil {
		return append(out, errorLine(err))
	}
	out = append(out, s.filter(log)...)
	return append(out, s.UnitLine(s.Combat.Left), s.UnitLine(s.Combat.Right))
}

// NextTurn plays a turn with both units auto-assigned. Mid-turn, it fills
// the left unit's open slots and finishes the current turn instead.
func (s *Session) NextTurn() []string {
	if s.Combat.Over() {
		return s.OutcomeLines()
	}
	var out []string
	if s.Combat.Phase == engine.PhaseIdle {
		out = s.BeginTurn()
	}
	if s.Combat.Phase == engine.PhaseAssign {
		if err := s.Combat.AutoAssign(initiative.Left); err != nil {
			return append(out, errorLine(err))
		}
	}
	return append(out, s.FinishTurn()...)
}

// Play runs automatic turns until a unit falls or maxTurns have been
// played. A maxTurns of 0 or less uses DefaultMaxTurns.
func (s *Session) Play(maxTurns int) []string {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	var out []string
	for i := 0; i < maxTurns && !s.Combat.Over(); i++ {
		out = append(out, s.NextTurn()...)
	}
	if s.Combat.Over() {
		return append(out, s.OutcomeLines()...)
	}
	return append(out, fmt.Sprintf("No winner after %d turn(s).", maxTurns))
}

// Over reports whether the fight has been decided.
func (s *Session) Over() bool { return s.Combat.Over() }

// OutcomeLines describes how the fight ended. A turn cut short by a
// fall counts as played.
func (s *Session) OutcomeLines() []string {
	turns := s.Combat.Turn
	if s.Combat.Phase == engine.PhaseIdle {
		turns--
	}
	if w := s.Combat.Winner(); w != nil {
		return []string{fmt.Sprintf("%s wins after %d turn(s).", w.Name, turns)}
	}
	if s.Combat.Over() {
		return []string{fmt.Sprintf("Both units fell after %d turn(s).", turns)}
	}
	return nil
}

// filter drops the indented per-roll detail lines unless tracing.
func (s *Session) filter(lines []string) []string {
	if s.Trace {
		return lines
	}
	var out []string
	for _, l := range lines {
		if !strings.HasPrefix(l, "  ") {
			out = append(out, l)
		}
	}
	return out
}

// UnitLine summarizes a unit's resources and active statuses.
func (s *Session) UnitLine(u *types.Unit) string {
	line := fmt.Sprintf("%s: HP %d/%d, stagger %d/%d, SP %d/%d",
		u.Name, u.HP, u.MaxHP, u.Stagger, u.MaxStagger, u.SP, u.MaxSP)
	if st := StatusSummary(u); st != "" {
		line += " [" + st + "]"
	}
	return line
}

// StatusSummary lists active statuses as "id stack", insertion ordered.
func StatusSummary(u *types.Unit) string {
	var parts []string
	for _, e := range state.ActiveStatuses(u) {
		parts = append(parts, fmt.Sprintf("%s %d", e.ID, e.Stack))
	}
	return strings.Join(parts, ", ")
}

// SlotLines shows one unit's speed slots and assignments.
func (s *Session) SlotLines(side initiative.Side) []string {
	u := s.Combat.Unit(side)
	out := []string{fmt.Sprintf("%s (%s) slots:", u.Name, side)}
	if len(u.Slots) == 0 {
		return append(out, " none")
	}
	for i, slot := range u.Slots {
		switch {
		case slot.Stunned:
			out = append(out, fmt.Sprintf(" [%d] staggered", i))
		case slot.Card == nil:
			out = append(out, fmt.Sprintf(" [%d] speed %d, empty", i, slot.Speed))
		default:
			aggro := ""
			if slot.Aggro {
				aggro = " (aggro)"
			}
			out = append(out, fmt.Sprintf(" [%d] speed %d, %s -> slot %d%s",
				i, slot.Speed, slot.Card.Name, slot.Target, aggro))
		}
	}
	return out
}

// DeckLines lists the left unit's cards with dice and cooldowns.
func (s *Session) DeckLines() []string {
	u := s.Combat.Left
	out := []string{fmt.Sprintf("%s deck:", u.Name)}
	for _, card := range u.Deck {
		var dice []string
		for _, d := range card.Dice {
			dice = append(dice, fmt.Sprintf("%s %d-%d", d.Kind, d.Min, d.Max))
		}
		line := fmt.Sprintf(" %s (%s): %s", card.ID, card.Name, strings.Join(dice, ", "))
		if state.OnCooldown(u, card.ID) {
			line += fmt.Sprintf(", cooling down %d", u.Cooldowns[card.ID])
		}
		out = append(out, line)
	}
	return out
}

func errorLine(err error) string {
	switch {
	case errors.Is(err, engine.ErrWrongPhase):
		return fmt.Sprintf("Not now: %v", err)
	default:
		return fmt.Sprintf("Can't do that: %v", err)
	}
}

// meta dispatches slash commands. Returns true if the session should end.
func (s *Session) meta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return s.cmdSave(arg), false
	case "/load":
		return s.cmdLoad(arg), false
	case "/help":
		return HelpLines(), false
	case "/state":
		return s.cmdState(), false
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (s *Session) savePath(name string) string {
	if name == "" {
		name = "quicksave"
	}
	return filepath.Join(s.SaveDir, name+".yaml")
}

func (s *Session) cmdSave(name string) []string {
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := s.savePath(name)
	if err := save.WriteFile(path, s.Combat); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Combat saved to %s.", path)}
}

func (s *Session) cmdLoad(name string) []string {
	cp, err := save.ReadFile(s.savePath(name))
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	s.Combat = save.Restore(cp, s.Registry, engine.WithLogger(s.Combat.Logger()))
	out := []string{fmt.Sprintf("Combat loaded (turn %d, %s).", cp.Turn, cp.Phase)}
	return append(out, s.UnitLine(s.Combat.Left), s.UnitLine(s.Combat.Right))
}

func (s *Session) cmdState() []string {
	c := s.Combat
	out := []string{
		fmt.Sprintf("Turn: %d", c.Turn),
		fmt.Sprintf("Phase: %s", c.Phase),
	}
	if c.Phase == engine.PhaseActions {
		out = append(out, fmt.Sprintf("Actions: %d of %d resolved", c.Next, len(c.Actions)))
	}
	if c.Checkpointable() {
		out = append(out, fmt.Sprintf("RNG: seed %d, position %d", c.RNG.Seed(), c.RNG.Position()))
	}
	for _, u := range []*types.Unit{c.Left, c.Right} {
		out = append(out, s.UnitLine(u))
		var mods []string
		for _, k := range sortedMods(u.Mods) {
			mods = append(mods, fmt.Sprintf("%s=%d", k, u.Mods[k]))
		}
		if len(mods) > 0 {
			out = append(out, "  mods: "+strings.Join(mods, " "))
		}
	}
	return out
}

// sortedMods returns the modifier keys that differ from their defaults.
func sortedMods(m types.Modifiers) []string {
	var keys []string
	for k, v := range m {
		if (k == types.ModHealEfficiency && v != 100) || (k != types.ModHealEfficiency && v != 0) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// HelpLines lists every command.
func HelpLines() []string {
	return []string{
		"System:",
		"  /save [name]  Save the combat (default: quicksave)",
		"  /load [name]  Load a saved combat (default: quicksave)",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /state        Debug: dump the session state",
		"  /trace        Toggle per-roll detail",
		"",
		"Combat:",
		"  turn (t)                          Roll speed and start a turn",
		"  assign (a, play) <slot> <card> [at target] [aggro]",
		"                                    Put a card in one of your slots",
		"  auto                              Fill your open slots from the deck",
		"  commit (c)                        Lock in assignments",
		"  step (s)                          Resolve the next action",
		"  end (e, end turn)                 Resolve the rest of the turn",
		"  next (n, next turn)               Play a whole turn automatically",
		"  slots | deck (d)                  Show slots or your deck",
		"  again (g)                         Repeat your last command",
	}
}
