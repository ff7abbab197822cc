package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mchsplit/internal/config"
	"mchsplit/internal/history"
	"mchsplit/internal/logging"
	"mchsplit/internal/splitter"
)

type splitFlags struct {
	source     string
	output     string
	threads    int
	maxThreads bool
	strict     bool
}

func bindSplitFlags(cmd *cobra.Command, f *splitFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", "", "Cheat database to split (default from config, cheats.xml)")
	flags.StringVarP(&f.output, "output", "o", "", "Output directory, cleared on every run (default from config, MCH)")
	flags.IntVarP(&f.threads, "threads", "t", config.DefaultThreads,
		"Games converted at once. More is faster but uses more memory and CPU")
	flags.BoolVarP(&f.maxThreads, "maxthreads", "m", false,
		"Convert everything at once after parsing. Uses a lot of memory")
	flags.BoolVar(&f.strict, "strict", false, "Fail games whose codes contain non-hex tokens")
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var flags splitFlags
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Convert the cheat database into .mch files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, ctx, &flags)
		},
	}
	bindSplitFlags(cmd, &flags)
	return cmd
}

// applySplitFlags overlays explicitly set flags onto cfg.
func applySplitFlags(cmd *cobra.Command, f *splitFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("source") {
		path, err := config.ExpandPath(strings.TrimSpace(f.source))
		if err != nil {
			return err
		}
		cfg.Paths.Source = path
	}
	if changed("output") {
		path, err := config.ExpandPath(strings.TrimSpace(f.output))
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = path
	}
	if changed("threads") {
		cfg.Split.Threads = f.threads
		cfg.Split.Unlimited = false
	}
	if changed("maxthreads") {
		cfg.Split.Unlimited = f.maxThreads
	}
	if changed("strict") {
		cfg.Split.StrictCodes = f.strict
	}
	return cfg.Validate()
}

func runSplit(cmd *cobra.Command, ctx *commandContext, f *splitFlags) error {
	cfg, err := ctx.configCopy()
	if err != nil {
		return err
	}
	if err := applySplitFlags(cmd, f, &cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, err := logging.NewFromConfig(&cfg, runID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if cfg.Logging.Dir != "" {
		logging.PruneRunLogs(logger, cfg.Logging.Dir, cfg.Logging.RetentionDays, logging.RunLogName(runID))
	}

	conv, err := splitter.New(splitter.Options{
		SourcePath:  cfg.Paths.Source,
		OutputDir:   cfg.Paths.OutputDir,
		Capacity:    cfg.Capacity(),
		StrictCodes: cfg.Split.StrictCodes,
		Logger:      logger,
		RunID:       runID,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Splitting, please wait...")

	summary, runErr := conv.Run(cmd.Context())
	if summary != nil {
		fmt.Fprintln(out, renderSummary(summary))
		if len(summary.Failures) > 0 {
			fmt.Fprintln(out, renderFailures(summary.Failures))
		}
		if cfg.History.Enabled {
			recordHistory(cmd.Context(), &cfg, summary, runErr, logger)
		}
	}

	if runErr != nil {
		return runErr
	}
	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d games failed to convert", failed, summary.Records)
	}
	return nil
}

func recordHistory(ctx context.Context, cfg *config.Config, summary *splitter.Summary, runErr error, logger *slog.Logger) {
	// The run itself is finished; a cancelled context must not lose its row.
	ctx = context.WithoutCancel(ctx)
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if err := store.Record(ctx, historyRun(summary, runErr)); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}
