package main

import (
	"fmt"

	"github.com/sibyl-oracle/sibyl-contract/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app is shared by all commands. It is filled before any command runs.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	var (
		a       = new(app)
		envFile string
		mainnet bool
	)

	root := &cobra.Command{
		Use:           "sibyl",
		Short:         "Sibyl oracle agent and prediction registry management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if mainnet {
				cfg.Network = config.MainNet
			}

			a.cfg = cfg
			a.log, err = newLogger(cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with SIBYL_* and DEEPSEEK_* settings")
	root.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use Neo mainnet instead of the configured network")

	root.AddCommand(
		a.compileCommand(),
		a.deployCommand(),
		a.initCommand(),
		a.predictCommand(),
		a.resolveCommand(),
		a.transferAuthorityCommand(),
		a.statusCommand(),
		a.showCommand(),
		a.dumpCommand(),
	)

	return root
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.Encoding = "console"
	c.Sampling = nil
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build()
}
