// Package cli holds the cobra commands of the foldersearch binary.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"foldersearch/internal/config"
	"foldersearch/internal/logging"
)

// envPrefix namespaces the environment variables bound to flags
const envPrefix = "FOLDERSEARCH"

// NewRootCommand creates the root command. Without a subcommand it starts
// the TUI in the given directory.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "foldersearch [dir]",
		Short: "Search a folder tree by name or content",
		Long: `foldersearch walks a folder tree and lists the files and folders whose
name, or whose content, contains a query.

Run it without a subcommand to open the interactive search screen, or use
"foldersearch find" to search from scripts.`,
		Version:      versionString(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return runTUI(cmd, v, dir)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/"+config.FileName+")")
	cmd.PersistentFlags().String("log-file", "", "log file (default is <user cache dir>/foldersearch/foldersearch.log)")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn or error")

	cmd.AddCommand(newFindCommand(v))
	cmd.AddCommand(newHistoryCommand(v))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// bindFlags lets FOLDERSEARCH_* environment variables stand in for flags
// that were not given on the command line
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// settings is what every command needs before it can do work
type settings struct {
	cfg    *config.Config
	cfgSvc config.ConfigService
}

// loadSettings reads the config file and applies flag and environment
// overrides on top of it
func loadSettings(v *viper.Viper) (*settings, error) {
	cfgSvc := config.NewConfigService(v.GetString("config"), nil)
	cfg, err := cfgSvc.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgSvc.Path(), err)
	}

	if v.IsSet("log-file") {
		cfg.Log.File = v.GetString("log-file")
	}
	if v.IsSet("log-level") {
		cfg.Log.Level = v.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &settings{cfg: cfg, cfgSvc: cfgSvc}, nil
}

// newLogger opens the log file named by the settings
func (s *settings) newLogger() (*logging.Logger, error) {
	return logging.New(logging.Options{
		Name:  "foldersearch",
		Level: s.cfg.Log.Level,
		File:  s.cfg.Log.FilePath(),
	})
}

// resolveDir picks the folder to search: the argument, then the configured
// start directory, then the working directory
func resolveDir(arg string, cfg *config.Config) (string, error) {
	dir := arg
	if dir == "" {
		dir = cfg.StartDir
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
