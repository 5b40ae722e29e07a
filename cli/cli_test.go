package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/clashcore/content"
	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/engine/state"
	"github.com/nathoo/clashcore/engine/stats"
	"github.com/nathoo/clashcore/types"
)

var testCards = map[string]types.Card{
	"slash": {ID: "slash", Name: "Slash", Dice: []types.Die{{Kind: types.Slash, Min: 2, Max: 7}}},
	"guard": {ID: "guard", Name: "Guard", Dice: []types.Die{{Kind: types.Block, Min: 1, Max: 6}}},
	"smash": {ID: "smash", Name: "Smash", Dice: []types.Die{{Kind: types.Blunt, Min: 3, Max: 8}}},
}

func testRegistry(t *testing.T) *hooks.Registry {
	t.Helper()
	reg, err := content.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func testUnit(t *testing.T, reg *hooks.Registry, name string, hp int, deck ...string) *types.Unit {
	t.Helper()
	def := types.UnitDef{
		ID:            name,
		Name:          name,
		HP:            hp,
		SP:            10,
		BaseSpeed:     types.DiceRange{Min: 1, Max: 6},
		HPResist:      types.Resistances{Slash: 1, Pierce: 1, Blunt: 1},
		StaggerResist: types.Resistances{Slash: 1, Pierce: 1, Blunt: 1},
		Deck:          deck,
	}
	u := state.Spawn(def, testCards)
	stats.Prime(u, events.New(reg, nil))
	return u
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	reg := testRegistry(t)
	a := testUnit(t, reg, "Knight", 40, "slash", "guard")
	b := testUnit(t, reg, "Brute", 40, "smash", "slash")
	return newCLI(t, engine.New(a, b, reg, 99), reg, input, t.TempDir())
}

func newCLI(t *testing.T, c *engine.Combat, reg *hooks.Registry, input, dir string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cl := &CLI{
		Session: &Session{Combat: c, Registry: reg, SaveDir: dir},
		In:      strings.NewReader(input),
		Out:     &out,
		Manual:  true,
	}
	return cl, &out
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q:\n%s", w, output)
		}
	}
}

func TestCLI_Intro(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	assertContains(t, out.String(),
		"Knight vs Brute",
		"Knight: HP 40/40",
		"[Type /help for commands.]",
		"[Goodbye.]")
}

func TestCLI_AutoPlay(t *testing.T) {
	reg := testRegistry(t)
	a := testUnit(t, reg, "Knight", 40, "smash")
	b := testUnit(t, reg, "Dummy", 2)
	c, out := newCLI(t, engine.New(a, b, reg, 5), reg, "", t.TempDir())
	c.Manual = false
	c.Run()

	assertContains(t, out.String(), "Turn 1", "Knight wins after 1 turn(s).")
	if !c.Session.Over() {
		t.Error("combat should be over")
	}
}

func TestCLI_AutoPlayTurnCap(t *testing.T) {
	reg := testRegistry(t)
	a := testUnit(t, reg, "Knight", 40)
	b := testUnit(t, reg, "Dummy", 40)
	c, out := newCLI(t, engine.New(a, b, reg, 5), reg, "", t.TempDir())
	c.Manual = false
	c.MaxTurns = 3
	c.Run()

	assertContains(t, out.String(), "Turn 3", "No winner after 3 turn(s).")
	if strings.Contains(out.String(), "Turn 4") {
		t.Error("auto-play should stop at the turn cap")
	}
}

func TestCLI_ManualTurn(t *testing.T) {
	c, out := newTestCLI(t, "turn\nassign 0 slash\ncommit\nstep\n/quit\n")
	c.Run()

	assertContains(t, out.String(),
		"Turn 1",
		"Knight (left) slots:",
		"Brute (right) slots:",
		"Slash -> slot 0",
		"action(s) queued.")
	if c.Session.Combat.Phase != engine.PhaseActions {
		t.Errorf("phase = %s, want actions", c.Session.Combat.Phase)
	}
	if c.Session.Combat.Next != 1 {
		t.Errorf("next = %d, want 1", c.Session.Combat.Next)
	}
}

func TestCLI_EndsWhenDecided(t *testing.T) {
	reg := testRegistry(t)
	a := testUnit(t, reg, "Knight", 40, "smash")
	b := testUnit(t, reg, "Dummy", 2)
	c, out := newCLI(t, engine.New(a, b, reg, 5), reg, "next\nturn\n", t.TempDir())
	c.Run()

	output := out.String()
	assertContains(t, output, "Knight wins after 1 turn(s).")
	if strings.Contains(output, "Turn 2") {
		t.Error("no turn should start after the fight is decided")
	}
}

func TestCLI_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"step before turn", "step\n", []string{"No turn in progress."}},
		{"end before turn", "end\n", []string{"No turn in progress."}},
		{"unknown", "dance\n", []string{`I don't know "dance".`}},
		{"assign bad slot", "turn\nassign x slash\n", []string{`Slot "x" is not a number.`}},
		{"assign usage", "turn\nassign 0\n", []string{"Usage: assign"}},
		{"assign unknown card", "turn\nassign 0 fireball\n", []string{"Can't do that:", "card not in deck"}},
		{"assign when idle", "assign 0 slash\n", []string{"Not now:"}},
		{"deck", "deck\n", []string{"Knight deck:", "slash (Slash): slash 2-7", "guard (Guard): block 1-6"}},
		{"auto", "turn\nauto\n", []string{"Knight (left) slots:"}},
		{"end resolves turn", "turn\nend\n", []string{"Knight: HP", "Brute: HP"}},
		{"commit then end", "turn\ncommit\nend\n", []string{"Brute: HP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, tt.input+"/quit\n")
			c.Run()
			assertContains(t, out.String(), tt.want...)
		})
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	assertContains(t, out.String(), "/save", "/load", "/quit", "assign (a, play)")
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "next\ng\n/quit\n")
	c.Run()

	assertContains(t, out.String(), "Turn 1", "Turn 2")
}

func TestCLI_AgainNothing(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	assertContains(t, out.String(), "Nothing to repeat.")
}

func TestCLI_CommentsAndEcho(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\ndeck\n/quit\n")
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should be skipped")
	}
	assertContains(t, output, "> deck\n")
}

func TestCLI_UnknownMeta(t *testing.T) {
	c, out := newTestCLI(t, "/dance\n/quit\n")
	c.Run()

	assertContains(t, out.String(), "[Unknown command: /dance.")
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	reg := testRegistry(t)

	a := testUnit(t, reg, "Knight", 40, "slash", "guard")
	b := testUnit(t, reg, "Brute", 40, "smash", "slash")
	c, out := newCLI(t, engine.New(a, b, reg, 99), reg, "next\nturn\n/save test\n/quit\n", dir)
	c.Run()
	assertContains(t, out.String(), "Combat saved to")
	if c.Session.Over() {
		t.Skip("fight ended before the save")
	}
	wantLeft := c.Session.UnitLine(c.Session.Combat.Left)

	a2 := testUnit(t, reg, "Knight", 40, "slash")
	b2 := testUnit(t, reg, "Brute", 40, "smash")
	c2, out2 := newCLI(t, engine.New(a2, b2, reg, 1), reg, "/load test\n/state\n/quit\n", dir)
	c2.Run()

	assertContains(t, out2.String(),
		"Combat loaded (turn 2, assign).",
		"Phase: assign",
		"RNG: seed 99")
	if got := c2.Session.UnitLine(c2.Session.Combat.Left); got != wantLeft {
		t.Errorf("left after load = %q, want %q", got, wantLeft)
	}
}

func TestCLI_LoadMissing(t *testing.T) {
	c, out := newTestCLI(t, "/load nothing\n/quit\n")
	c.Run()

	assertContains(t, out.String(), "[Load failed:")
}

func TestSession_TraceFilter(t *testing.T) {
	s := &Session{}
	lines := []string{"Knight rolls slash 5", "  strength +1", "Brute takes 5 damage"}

	if got := s.filter(lines); len(got) != 2 {
		t.Errorf("filtered = %v, want detail line dropped", got)
	}
	out, _ := s.Exec("/trace")
	if !s.Trace || out[0] != "Trace output enabled." {
		t.Errorf("trace = %v (%v), want enabled", s.Trace, out)
	}
	if got := s.filter(lines); len(got) != 3 {
		t.Errorf("traced = %v, want every line", got)
	}
	s.Exec("/trace")
	if s.Trace {
		t.Error("second /trace should disable tracing")
	}
}

func TestSession_UnitLineStatuses(t *testing.T) {
	reg := testRegistry(t)
	u := testUnit(t, reg, "Knight", 40)
	state.AddStatus(u, types.StatusBleed, 3, 0, 0)
	state.AddStatus(u, types.StatusHaste, 1, 0, 0)

	s := &Session{}
	want := "Knight: HP 40/40, stagger " // stagger gauge depends on stats
	got := s.UnitLine(u)
	if !strings.HasPrefix(got, want) || !strings.HasSuffix(got, "[bleed 3, haste 1]") {
		t.Errorf("UnitLine = %q", got)
	}
}
