// Package cli wires the build-in-public commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"build-in-public/internal/config"
)

// app carries state shared by every command.
type app struct {
	verbose    bool
	configFile string

	v      *viper.Viper
	cfg    config.AppConfig
	logger *log.Logger
	now    func() time.Time
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"claude-home":    config.KeyClaudeHome,
	"db-path":        config.KeyDBPath,
	"output":         config.KeyOutputDir,
	"twitter-style":  config.KeyTwitterStyle,
	"linkedin-style": config.KeyLinkedInStyle,
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "build-in-public"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "build-in-public",
		Short: "Turn coding sessions into #BuildingInPublic posts",
		Long: `build-in-public reads a Claude Code session transcript, summarizes what happened
and drafts social media posts for Twitter/X, BlueSky, LinkedIn and long-form blogs.

Paths and project names are redacted before anything is written.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ~/.config/build-in-public/config.yaml)")
	root.PersistentFlags().String("claude-home", "", "path to Claude home directory")
	root.PersistentFlags().String("db-path", "", "path to SQLite history file")

	root.AddCommand(a.generateCmd())
	root.AddCommand(a.hookCmd())
	root.AddCommand(a.historyCmd())
	root.AddCommand(a.configCmd())
	return root
}

// load reads config, then lets flags set on cmd override it.
func (a *app) load(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)

	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}
	if f := cmd.Flags().Lookup("no-history"); f != nil && f.Changed {
		v.Set(config.KeyHistory, false)
	}

	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	a.v = v
	a.cfg = cfg
	a.logger.Debug("config loaded", "file", v.ConfigFileUsed(), "claude_home", cfg.ClaudeHome)
	return nil
}

// Execute runs the CLI against the process streams.
func Execute(version string) error {
	root := NewRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
