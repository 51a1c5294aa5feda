package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinojeng/mov2mp4/internal/config"
)

var version = "dev"

// exitSetup is the status for environment and planning failures, kept
// distinct from per-file conversion failures (batch.ExitFailures).
const exitSetup = 2

var (
	cfgPath    string
	verbose    bool
	jsonOutput bool
)

// exitCode is what main hands to the shell when Execute itself
// succeeds. Set by the convert and check runs.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "mov2mp4 [flags] PATH ...",
	Short: "Batch convert QuickTime MOV files to MP4",
	Long: `mov2mp4 - batch convert QuickTime MOV files to MP4

Converts every .mov file named by PATH (files or directories) to an
H.264/AAC .mp4, running several ffmpeg processes in parallel.

Exit status: 0 all conversions succeeded, 1 one or more failed,
2 setup problem (bad flags, config, or missing ffmpeg), 130 interrupted.

Examples:
  mov2mp4 clip.mov                   # Convert one file
  mov2mp4 -r -p 4 ~/Movies           # Convert a tree, four at a time
  mov2mp4 -q high -o out/ a.mov b.mov`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mov2mp4: %v\n", err)
		return exitSetup
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	addConvertFlags(rootCmd)

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mov2mp4 {{.Version}}\n")
}

// addConvertFlags registers the conversion flags. Split out so tests
// can build a command with the same flag set.
func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory (default: next to each source)")
	cmd.Flags().StringP("quality", "q", "", "Quality preset: low, medium, high")
	cmd.Flags().BoolP("recursive", "r", false, "Recurse into directories")
	cmd.Flags().IntP("parallel", "p", 0, "Concurrent conversions")
	cmd.Flags().Bool("overwrite", false, "Replace existing .mp4 outputs")
	cmd.Flags().Duration("timeout", 0, "Per-file time limit (0 = none)")
	cmd.Flags().Bool("dry-run", false, "Show the conversion plan without running it")
}

// loadConfig resolves the effective config: the --config file when
// given, otherwise the first discovered file, otherwise built-in
// defaults. A missing config file is not an error; flags are enough.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return config.Default(), nil
		}
		path = discovered
	}
	return config.Load(path)
}

// newLogger builds the process logger on stderr so stdout stays clean
// for progress display and JSON output.
func newLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
