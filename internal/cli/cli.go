// Package cli wires the cobra/viper command tree, the way
// spatialmodel-inmap/inmaputil wires `inmap run`/`inmap grid`: a single
// *Cfg carries both the *viper.Viper configuration state and the
// *cobra.Command tree, with a PersistentPreRunE that loads the
// configuration file before any subcommand runs.
package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Cfg holds the CLI's viper-backed configuration and its cobra command
// tree (spec.md §6 "Exit codes (evaluator)").
type Cfg struct {
	*viper.Viper
	Root        *cobra.Command
	runCmd      *cobra.Command
	validateCmd *cobra.Command
	Log         *logrus.Logger
}

// Exit codes per spec.md §6.
const (
	ExitSuccess               = 0
	ExitConfigurationRejected = 1
	ExitResourceMissing       = 2
	ExitInternalFailure       = 3
)

// InitializeConfig builds the command tree.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New(), Log: logrus.New()}

	cfg.Root = &cobra.Command{
		Use:   "energyflow",
		Short: "Facility energy-demand and emissions solver.",
		Long: `energyflow evaluates a declarative oil-and-gas facility model over a
time horizon, producing per-period energy usage, fuel consumption, and
greenhouse-gas emissions.

Configuration can be supplied via --config, command-line flags, or
environment variables prefixed ENERGYFLOW_.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}
	cfg.Root.PersistentFlags().StringP("config", "c", "", "path to the facility configuration file")
	cfg.Root.PersistentFlags().StringArray("set", nil, "override a VARIABLES entry: --set NAME=VALUE (repeatable)")
	cfg.Root.PersistentFlags().String("log-level", "info", "panic|fatal|error|warn|info|debug|trace")
	cfg.BindPFlag("config", cfg.Root.PersistentFlags().Lookup("config"))
	cfg.BindPFlag("set", cfg.Root.PersistentFlags().Lookup("set"))
	cfg.BindPFlag("log-level", cfg.Root.PersistentFlags().Lookup("log-level"))
	cfg.SetEnvPrefix("ENERGYFLOW")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Evaluate the facility model over its configured time horizon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cfg)
		},
		DisableAutoGenTag: true,
	}

	cfg.validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the configuration without evaluating it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cfg)
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.runCmd, cfg.validateCmd)
	return cfg
}

// setConfig reads in the configuration file named by --config, if any,
// and applies --log-level (spec.md's ambient logging stack, following
// spatialmodel-inmap/inmaputil.setConfig).
func setConfig(cfg *Cfg) error {
	if path := cfg.GetString("config"); path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("energyflow: reading configuration: %w", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("energyflow: invalid --log-level: %w", err)
	}
	cfg.Log.SetLevel(level)
	return nil
}
