// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pukimd/internal/refresh"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the vault up to date by re-running the conversion",
	Long: `Watch converts the wiki once and then again on a cron schedule
(--schedule), whenever a page file in source-dir changes (--watch), or
both. Runs never overlap: changes made during a run trigger exactly one
more run afterwards. The manifest keeps repeated runs cheap by skipping
unchanged pages. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	level := hclog.Info
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "pukimd",
		Output: os.Stderr,
		Level:  level,
	})

	cfg := refresh.Config{
		Schedule:   s.Schedule,
		Debounce:   s.Debounce,
		RunOnStart: true,
	}
	if s.Watch {
		cfg.WatchDir = s.SourceDir
	}

	job := func(ctx context.Context) error {
		result, err := convertAll(ctx, s, false, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d page(s) failed conversion", result.Failed)
		}
		return nil
	}

	sched, err := refresh.New(cfg, job, logger)
	if errors.Is(err, refresh.ErrNoTrigger) {
		return fmt.Errorf("%w: pass --schedule, --watch, or both", err)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sched.Run(ctx)
}

func init() {
	addConvertFlags(watchCmd.Flags())
	addRefreshFlags(watchCmd.Flags())

	rootCmd.AddCommand(watchCmd)
}
