package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nathoo/clashcore/content"
	"github.com/nathoo/clashcore/engine/hooks"
	"github.com/nathoo/clashcore/loader"
)

var checkCmd = &cobra.Command{
	Use:   "check [content_dir]",
	Short: "Load and validate content without fighting",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("content_dir")
		if len(args) == 1 {
			dir = args[0]
		}
		c, _, err := loadContent(dir, zap.NewNop())
		out := cmd.OutOrStdout()
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			printIssues(out, "error", ve.Errors)
			printIssues(out, "warning", ve.Warnings)
			return fmt.Errorf("%s: %d error(s)", dir, len(ve.Errors))
		}
		if err != nil {
			return err
		}
		printIssues(out, "warning", c.Warnings)
		fmt.Fprintf(out, "%s: %d unit(s), %d card(s), %d status(es), %d passive(s), %d talent(s), %d encounter(s)\n",
			dir, len(c.Units), len(c.Cards), len(c.Statuses), len(c.Passives), len(c.Talents), len(c.Encounters))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func printIssues(w io.Writer, kind string, issues []string) {
	for _, s := range issues {
		fmt.Fprintf(w, "%s: %s\n", kind, s)
	}
}

// loadContent loads dir against the built-in library, registers the
// content behaviors, and freezes the registry. Warnings go to the logger.
func loadContent(dir string, logger *zap.Logger) (*loader.Content, *hooks.Registry, error) {
	reg, err := content.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	c, err := loader.Load(dir, reg)
	if err != nil {
		return c, nil, err
	}
	for _, w := range c.Warnings {
		logger.Warn("content warning", zap.String("dir", dir), zap.String("warning", w))
	}
	if err := c.Register(reg); err != nil {
		return c, nil, fmt.Errorf("registering content: %w", err)
	}
	reg.Freeze()
	return c, reg, nil
}
