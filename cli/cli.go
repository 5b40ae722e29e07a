// Package cli provides terminal I/O, output formatting, and command
// dispatch for ClashCore combats.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/engine/hooks"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	Manual    bool   // read commands instead of auto-playing
	MaxTurns  int    // auto-play turn cap, 0 = DefaultMaxTurns
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given combat.
func New(c *engine.Combat, reg *hooks.Registry) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Session: &Session{
			Combat:   c,
			Registry: reg,
			SaveDir:  filepath.Join(home, ".clashcore", "saves"),
		},
		In:  os.Stdin,
		Out: os.Stdout,
	}
}

// Run plays the combat. Without Manual it auto-plays to the end; with
// Manual it loops: prompt → input → dispatch → output, until the fight is
// decided or the player quits.
func (c *CLI) Run() {
	s := c.Session
	c.printLine(fmt.Sprintf("%s vs %s", s.Combat.Left.Name, s.Combat.Right.Name))
	c.printLine(s.UnitLine(s.Combat.Left))
	c.printLine(s.UnitLine(s.Combat.Right))

	if !c.Manual {
		c.printLines(s.Play(c.MaxTurns))
		return
	}

	c.printSystem("Type /help for commands.")
	scanner := bufio.NewScanner(c.In)
	for !s.Over() {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			lines, quit := s.Exec(input)
			for _, l := range lines {
				c.printSystem(l)
			}
			if quit {
				return
			}
			continue
		}

		// "again" / "g" repeats the last combat command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		lines, _ := s.Exec(input)
		c.printLines(lines)
	}
	if s.Over() {
		c.printLines(s.OutcomeLines())
	}
}

func (c *CLI) printLines(lines []string) {
	for _, l := range lines {
		c.printLine(l)
	}
}

func (c *CLI) printLine(s string) {
	fmt.Fprintln(c.Out, s)
}

func (c *CLI) print(s string) {
	fmt.Fprint(c.Out, s)
}

func (c *CLI) printSystem(s string) {
	fmt.Fprintf(c.Out, "[%s]\n", s)
}
