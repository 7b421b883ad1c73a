package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/config"
	logpkg "github.com/kailas-cloud/dnamatch/internal/logger"
	"github.com/kailas-cloud/dnamatch/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env      string
	endpoint string
	logLevel string
}

// newRootCmd represents the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "dnamatch",
		Short: "Find the animal species closest to a DNA sequence",
		Long: `Find the animal species closest to a DNA sequence.
The query is sent to a k-mer matching service, which ranks reference
sequences by the similarity of their k-mer sets.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.env, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")
	root.PersistentFlags().StringVar(&g.endpoint, "endpoint", "", "matching service URL (overrides config)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newSearchCmd(g), newServeCmd(g))
	return root
}

// loadConfig reads the environment config and applies flag overrides.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.env)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if g.endpoint != "" {
		cfg.Matcher.Endpoint = g.endpoint
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid --endpoint: %w", err)
		}
	}
	return cfg, nil
}

// newLogger builds the process logger. loggerEnv selects the output format;
// an explicit --log-level wins over the configured level.
func (g *globalFlags) newLogger(loggerEnv, configuredLevel string) (*zap.Logger, error) {
	level := configuredLevel
	if g.logLevel != "" {
		level = g.logLevel
	}
	l, err := logpkg.NewLogger(loggerEnv, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}
