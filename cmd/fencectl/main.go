package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/logging"
)

// cli holds what every subcommand needs
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	ctx        context.Context
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{ctx: context.Background()}

	rootCmd := &cobra.Command{
		Use:   "fencectl",
		Short: "Fence patrol CLI - post volunteers and form patrol groups",
		Long:  `A CLI tool for computing fence post assignments and patrol groups from the configured volunteer store.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file (defaults to CONFIG_PATH)")

	rootCmd.AddCommand(assignCmd(c))
	rootCmd.AddCommand(groupsCmd(c))
	rootCmd.AddCommand(seedCmd(c))
	rootCmd.AddCommand(keygenCmd(c))

	return rootCmd
}

// init loads configuration and a logger that keeps stdout free for command output
func (c *cli) init(cmd *cobra.Command) error {
	config.LoadEnvFiles()

	var err error
	c.cfg, err = config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c.logger, err = logging.New(c.cfg.Environment, c.cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger.Debug("configuration loaded",
		zap.String("store", c.cfg.Store.Backend),
		zap.String("strategy", c.cfg.Scheduling.Strategy))
	return nil
}
