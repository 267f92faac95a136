// Command burrow runs the client's background worker group: the handshake
// poller and the diagnostics sampler, coordinated through a shared stop
// flag and shutdown rendezvous.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/burrownet/burrow"
	"github.com/burrownet/burrow/config"
	"github.com/burrownet/burrow/diagnostics"
	"github.com/burrownet/burrow/handshake"
	"github.com/burrownet/burrow/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "burrow",
		Short:         "Circumvention client background worker group",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (YAML)")

	logCfg := logger.DefaultConfig()
	logCfg.Flags(root.PersistentFlags())

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the worker group until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd.Context(), cmd.Flags(), configPath, &logCfg)
		},
	}
	root.AddCommand(run)

	return root
}

func runClient(parent context.Context, flags *pflag.FlagSet, configPath string, logCfg *logger.Config) error {
	manager := config.NewManager(slog.Default())
	cfg, err := manager.Load(configPath)
	if err != nil {
		return err
	}

	applyLogConfig(logCfg, flags, cfg.Log)
	if err := logCfg.Validate(); err != nil {
		return err
	}
	log := logger.New(logCfg)

	client := burrow.New(
		burrow.WithLogger(log),
		burrow.WithTickInterval(cfg.TickInterval),
	)
	defer client.Close()

	if cfg.Handshake.URL != "" {
		poller := &handshake.Poller{
			URL:          cfg.Handshake.URL,
			Bus:          client.Bus(),
			Interval:     cfg.Handshake.Interval,
			MaxTries:     cfg.Handshake.MaxTries,
			FetchTimeout: cfg.Handshake.Timeout,
			Logger:       log,
		}
		if err := client.Register(poller); err != nil {
			return err
		}
	}
	if cfg.Diagnostics.Enabled {
		sampler := &diagnostics.Sampler{
			Bus:      client.Bus(),
			Interval: cfg.Diagnostics.Interval,
			Logger:   log,
		}
		if err := client.Register(sampler); err != nil {
			return err
		}
	}

	if configPath != "" {
		if err := manager.Watch(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("burrow starting",
		slog.String("handshake_url", cfg.Handshake.URL),
		slog.Bool("diagnostics", cfg.Diagnostics.Enabled),
	)
	return client.Run(ctx)
}

// applyLogConfig folds file-sourced log settings into the flag-backed
// logger config. Explicitly set flags win over the file.
func applyLogConfig(dst *logger.Config, flags *pflag.FlagSet, src config.LogConfig) {
	if src.Level != "" && !flags.Changed("log-level") {
		dst.SetLevelName(src.Level)
	}
	if src.Format != "" && !flags.Changed("log-format") {
		dst.Format = src.Format
	}
	if src.Output != "" && !flags.Changed("log-output") {
		dst.Output = src.Output
	}
	if src.AddSource && !flags.Changed("log-add-source") {
		dst.AddSource = true
	}
	dst.SetDefaults()
}
