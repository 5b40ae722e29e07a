package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clashcore",
	Short: "Deterministic dice clash combat resolver",
	Long: `ClashCore loads units, cards and behaviors from a directory of Lua files
and resolves seeded, reproducible combats between two units, either
automatically or one action at a time.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	home, _ := os.UserHomeDir()
	viper.SetDefault("content_dir", "arena")
	viper.SetDefault("seed", 0)
	viper.SetDefault("turns", 0)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("save_dir", filepath.Join(home, ".clashcore", "saves"))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clashcore.yaml or ./.clashcore.yaml)")
	pf.String("content_dir", "", "directory of Lua content files")
	pf.String("log_level", "", "log level: debug, info, warn, error")
	pf.String("log_file", "", "write logs to this file instead of stderr")
	for _, name := range []string{"content_dir", "log_level", "log_file"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

// initConfig reads the config file and CLASHCORE_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".clashcore")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLASHCORE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}
