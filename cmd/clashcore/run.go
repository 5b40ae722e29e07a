package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nathoo/clashcore/cli"
	"github.com/nathoo/clashcore/engine"
	"github.com/nathoo/clashcore/engine/events"
	"github.com/nathoo/clashcore/loader"
	"github.com/nathoo/clashcore/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [encounter | left right]",
	Short: "Fight an encounter, or two units by id",
	Long: `Runs a combat between two units. With one argument it names an
encounter from the content; with two, the left and right unit ids. With no
argument the first encounter is used.

The TUI starts when stdout is a terminal, unless --plain is given. In plain
mode the combat auto-plays to the end unless --manual is given.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCombat,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Int64("seed", 0, "RNG seed (0 = encounter seed, else time based)")
	f.Int("turns", 0, "auto-play turn cap (0 = encounter cap, else 100)")
	f.Bool("manual", false, "step through the combat with commands")
	f.Bool("plain", false, "use the line-oriented CLI instead of the TUI")
	f.Bool("trace", false, "show per-roll detail lines")
	f.String("save_dir", "", "directory for /save and /load")
	f.String("script", "", "read manual commands from a file")
	for _, name := range []string{"seed", "turns", "manual", "plain", "trace", "save_dir"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
}

func runCombat(cmd *cobra.Command, args []string) error {
	script, _ := cmd.Flags().GetString("script")
	plain := viper.GetBool("plain") || script != "" || !isatty.IsTerminal(os.Stdout.Fd())

	logger, err := newLogger(viper.GetString("log_level"), viper.GetString("log_file"), !plain)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir := viper.GetString("content_dir")
	c, reg, err := loadContent(dir, logger)
	if err != nil {
		return fmt.Errorf("loading %s: %w", dir, err)
	}

	enc, err := pickEncounter(c, args)
	if err != nil {
		return err
	}
	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = enc.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	turns := viper.GetInt("turns")
	if turns == 0 {
		turns = enc.Turns
	}

	d := events.New(reg, logger)
	left, err := c.Spawn(enc.Left, d)
	if err != nil {
		return err
	}
	right, err := c.Spawn(enc.Right, d)
	if err != nil {
		return err
	}
	combat := engine.New(left, right, reg, seed, engine.WithLogger(logger))
	logger.Info("combat created",
		zap.String("encounter", enc.ID),
		zap.String("left", left.DefID),
		zap.String("right", right.DefID),
		zap.Int64("seed", seed))

	session := &cli.Session{
		Combat:   combat,
		Registry: reg,
		SaveDir:  viper.GetString("save_dir"),
		Trace:    viper.GetBool("trace"),
	}

	if !plain {
		return tui.Run(session)
	}

	runner := &cli.CLI{
		Session:  session,
		In:       os.Stdin,
		Out:      cmd.OutOrStdout(),
		Manual:   viper.GetBool("manual"),
		MaxTurns: turns,
	}
	// Script mode: read commands from the file and echo them.
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		runner.In = f
		runner.Manual = true
		runner.EchoInput = true
	}
	runner.Run()
	return nil
}

// pickEncounter resolves the positional arguments to an encounter.
func pickEncounter(c *loader.Content, args []string) (loader.Encounter, error) {
	switch len(args) {
	case 2:
		for _, id := range args {
			if _, ok := c.Units[id]; !ok {
				return loader.Encounter{}, fmt.Errorf("unknown unit %q (have %v)", id, c.UnitIDs())
			}
		}
		return loader.Encounter{ID: args[0] + "_vs_" + args[1], Left: args[0], Right: args[1]}, nil
	case 1:
		if enc, ok := c.Encounter(args[0]); ok {
			return enc, nil
		}
		return loader.Encounter{}, fmt.Errorf("unknown encounter %q", args[0])
	}
	if enc, ok := c.Encounter(""); ok {
		return enc, nil
	}
	ids := c.UnitIDs()
	if len(ids) < 2 {
		return loader.Encounter{}, fmt.Errorf("content defines no encounter; pass two unit ids")
	}
	return loader.Encounter{ID: ids[0] + "_vs_" + ids[1], Left: ids[0], Right: ids[1]}, nil
}
