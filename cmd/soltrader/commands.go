package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"soltrader-go/internal/config"
)

var (
	configPath   string
	tickInterval time.Duration
	forceInit    bool

	rootCmd = &cobra.Command{
		Use:           "soltrader",
		Short:         "Autonomous SOL/USDC trading bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and API",
		RunE:  runServe,
	}

	tickCmd = &cobra.Command{
		Use:   "tick",
		Short: "Run one decision tick and print the result",
		RunE:  runTick,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print wallet, trades, config and stats",
		RunE:  runStatus,
	}

	priceCmd = &cobra.Command{
		Use:   "price",
		Short: "Print the current SOL/USDC price",
		RunE:  runPrice,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		RunE:  runConfigInit,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	serveCmd.Flags().DurationVar(&tickInterval, "interval", 0, "run ticks in-process at this interval (0 leaves scheduling to an external cron)")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(serveCmd, tickCmd, statusCmd, priceCmd, configCmd)
}

func withApp(run func(ctx context.Context, a *app) error) error {
	cfg, err := config.FromEnv(configPath)
	if err != nil {
		return err
	}
	a, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, a)
}

func runServe(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if tickInterval > 0 {
			go a.schedule(ctx, tickInterval)
		}
		return a.server().Run(ctx, a.cfg.App.HTTPAddr)
	})
}

func runTick(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		res, err := a.engine.Tick(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		return printJSON(cmd, a.status.Snapshot(ctx))
	})
}

func runPrice(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		return printJSON(cmd, a.fetcher.Spot(ctx))
	})
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.Save(configPath, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
	return nil
}

// schedule runs ticks until ctx is cancelled. Ticks never overlap.
func (a *app) schedule(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	a.log.Info().Dur("every", every).Msg("in-process scheduler started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.engine.Tick(ctx); err != nil {
				a.log.Error().Err(err).Msg("tick failed")
			}
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
