package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/glowplan/internal/smoke"
	"github.com/okian/glowplan/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultUsers          = 50
	defaultMomentsPerUser = 10
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultLookWait       = 2 * time.Minute
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &smoke.Config{}
	var (
		logFormat  string
		runTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "glow-smoke",
		Short: "Drive a running Glow Plan service end to end",
		Long: `glow-smoke stores baselines for synthetic users, creates moments
concurrently and checks the plans, history and idempotent replay the service
returns. With --looks it also requests one stylist look per user.

Examples:
  glow-smoke
  glow-smoke --users 200 --moments 20 --workers 16 --url http://localhost:8080
  glow-smoke --looks --look-wait 1m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Users < 1 || cfg.MomentsPerUser < 1 || cfg.Workers < 1 {
				return fmt.Errorf("users, moments and workers must be positive")
			}
			if err := logger.Init(logger.WithFormat(logFormat)); err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()

			if _, err := smoke.Run(ctx, cfg); err != nil {
				logger.Get().Error(ctx, "smoke run failed", logger.Error(err))
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVarP(&cfg.Users, "users", "u", defaultUsers, "Number of synthetic users")
	f.IntVarP(&cfg.MomentsPerUser, "moments", "m", defaultMomentsPerUser, "Moments created per user")
	f.IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU()*defaultWorkers, "Concurrent requests in flight")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.BoolVar(&cfg.Looks, "looks", false, "Request one stylist look per user")
	f.DurationVar(&cfg.LookWait, "look-wait", defaultLookWait, "How long to poll each look job")
	f.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "Generator seed")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")
	f.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	f.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "Deadline for the whole run")
	return cmd
}
