package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinojeng/mov2mp4/internal/batch"
	"github.com/zinojeng/mov2mp4/internal/config"
	"github.com/zinojeng/mov2mp4/internal/discover"
	"github.com/zinojeng/mov2mp4/internal/display"
	"github.com/zinojeng/mov2mp4/internal/engine"
	"github.com/zinojeng/mov2mp4/internal/events"
	"github.com/zinojeng/mov2mp4/internal/progress"
	"github.com/zinojeng/mov2mp4/pkg/ffprobe"
)

// runOptions is the effective conversion configuration after flags
// have overridden the config file.
type runOptions struct {
	outputDir string
	preset    batch.Preset
	recursive bool
	parallel  int
	overwrite bool
	timeout   time.Duration
	dryRun    bool
}

// resolveOptions merges the config file defaults with whatever flags
// the user actually set. A flag left untouched defers to the file.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) (runOptions, error) {
	flags := cmd.Flags()

	opts := runOptions{
		outputDir: cfg.Defaults.OutputDir,
		recursive: cfg.Defaults.Recursive,
		parallel:  cfg.Defaults.Parallel,
		overwrite: cfg.Defaults.Overwrite,
		timeout:   cfg.Defaults.Timeout(),
	}

	quality := cfg.Defaults.Quality
	if flags.Changed("quality") {
		quality, _ = flags.GetString("quality")
	}
	preset, err := batch.ParsePreset(quality)
	if err != nil {
		return runOptions{}, err
	}
	opts.preset = preset

	if flags.Changed("output") {
		opts.outputDir, _ = flags.GetString("output")
	}
	if flags.Changed("recursive") {
		opts.recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("parallel") {
		opts.parallel, _ = flags.GetInt("parallel")
	}
	if flags.Changed("overwrite") {
		opts.overwrite, _ = flags.GetBool("overwrite")
	}
	if flags.Changed("timeout") {
		opts.timeout, _ = flags.GetDuration("timeout")
	}
	opts.dryRun, _ = flags.GetBool("dry-run")

	if opts.parallel < 1 {
		return runOptions{}, fmt.Errorf("parallel must be at least 1, got %d", opts.parallel)
	}
	if opts.timeout < 0 {
		return runOptions{}, fmt.Errorf("timeout must not be negative")
	}

	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	opts, err := resolveOptions(cmd, cfg)
	if err != nil {
		return err
	}

	files, problems := discover.Find(args, discover.Options{Recursive: opts.recursive})
	plan, err := batch.BuildPlan(files, problems, batch.PlanOptions{
		OutputDir: opts.outputDir,
		Preset:    opts.preset,
		Overwrite: opts.overwrite,
	})
	if err != nil {
		return err
	}
	for _, note := range plan.Notes {
		logger.Warn("nothing to convert", "path", note.Path, "detail", note.Detail)
	}
	if len(plan.Jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no .mov files found")
		return nil
	}

	if opts.dryRun {
		printPlan(cmd, plan)
		return nil
	}

	if opts.outputDir != "" && plan.Runnable() > 0 {
		if err := ensureOutputDir(opts.outputDir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := ffprobe.New(
		ffprobe.WithBinary(cfg.Engine.FFprobe),
		ffprobe.WithLogger(logger),
	)
	runner := engine.NewRunner(cfg.Engine.Grace())
	eng := engine.NewFFmpeg(cfg.Engine.FFmpeg, prober, runner, logger)

	// Environment precondition: a missing engine is a setup error, not
	// a per-file failure, and is reported before any work starts.
	if _, err := eng.Check(ctx); err != nil {
		fmt.Fprint(os.Stderr, installHints())
		return err
	}

	tracker := progress.NewTracker()
	bus := events.NewBus(logger)
	defer bus.Close()
	observer := events.NewLogObserver(bus, logger)
	defer observer.Stop()

	var renderer *display.Renderer
	var printer *display.EventPrinter
	switch {
	case jsonOutput:
		// stdout carries the JSON document only
	case display.Interactive(os.Stdout):
		renderer = display.NewRenderer(tracker, os.Stdout, display.DefaultInterval)
		renderer.Start()
	default:
		printer = display.NewEventPrinter(bus, os.Stdout)
	}

	sched := batch.NewScheduler(eng, tracker, bus, logger, batch.Options{
		Parallel: opts.parallel,
		Timeout:  opts.timeout,
	})
	summary, runErr := sched.Run(ctx, plan)

	if renderer != nil {
		renderer.Stop()
	}
	if printer != nil {
		printer.Stop()
	}

	if runErr != nil && errors.Is(runErr, batch.ErrEngineNotAvailable) {
		fmt.Fprint(os.Stderr, installHints())
		return runErr
	}

	if jsonOutput {
		if err := printJSONSummary(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else {
		display.PrintSummary(cmd.OutOrStdout(), summary)
	}

	exitCode = summary.ExitCode()
	return nil
}

// ensureOutputDir creates the destination directory and confirms it
// accepts writes before any conversion starts, so a bad -o fails the
// batch once up front instead of failing every job.
func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	marker, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	marker.Close()
	os.Remove(marker.Name())
	return nil
}

// printPlan shows what a run would do, one line per job.
func printPlan(cmd *cobra.Command, plan *batch.Plan) {
	out := cmd.OutOrStdout()
	for _, job := range plan.Jobs {
		switch {
		case job.SkipReason != "":
			fmt.Fprintf(out, "skip    %s: %s\n", job.Source, display.ReasonText(string(job.SkipReason)))
		case job.FailReason != "":
			fmt.Fprintf(out, "fail    %s: %s\n", job.Source, display.ReasonText(string(job.FailReason)))
		default:
			fmt.Fprintf(out, "convert %s -> %s (quality %s)\n", job.Source, job.Dest, job.Preset)
		}
	}
	fmt.Fprintf(out, "%d of %d files would be converted\n", plan.Runnable(), len(plan.Jobs))
}
