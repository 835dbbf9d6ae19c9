package cmd

import (
	"errors"
	"io/fs"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/shell"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		// No config directory set up; run with built-in defaults.
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands.
// Running it starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "An interactive POSIX-style command shell.",
	Long: `gosh reads one command line at a time, parses it under shell quoting
rules and executes builtins, external programs and pipelines with
stdout/stderr redirection and a persistent history.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := shell.New(configuration)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
