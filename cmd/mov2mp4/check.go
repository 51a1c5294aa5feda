package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zinojeng/mov2mp4/internal/engine"
	"github.com/zinojeng/mov2mp4/pkg/ffprobe"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the conversion tools are installed",
	Long: `Check that ffmpeg and ffprobe can be found and run.

mov2mp4 needs ffmpeg to convert and ffprobe for input validation and
accurate progress. Conversion works without ffprobe, with coarser
progress reporting.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	out := cmd.OutOrStdout()

	prober := ffprobe.New(
		ffprobe.WithBinary(cfg.Engine.FFprobe),
		ffprobe.WithLogger(logger),
	)
	runner := engine.NewRunner(cfg.Engine.Grace())
	eng := engine.NewFFmpeg(cfg.Engine.FFmpeg, prober, runner, logger)

	info, err := eng.Check(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "ffmpeg:  not found (%v)\n", err)
		fmt.Fprint(os.Stderr, installHints())
		exitCode = 1
		return nil
	}

	fmt.Fprintf(out, "ffmpeg:  %s\n", info.FFmpegPath)
	fmt.Fprintf(out, "         %s\n", info.FFmpegVersion)
	if info.FFprobeVersion != "" {
		fmt.Fprintf(out, "ffprobe: %s\n", info.FFprobeVersion)
	} else {
		fmt.Fprintln(out, "ffprobe: not found (conversion still works, progress will be coarse)")
	}
	return nil
}
