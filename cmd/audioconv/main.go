// Command audioconv is the CLI entrypoint for the batch audio converter.
//
// It parses flags, validates configuration and paths, and either runs
// ffmpeg diagnostics (--check) or converts every audio file under the input
// directory into each requested format.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/audioconv/internal/check"
	"github.com/backmassage/audioconv/internal/config"
	"github.com/backmassage/audioconv/internal/display"
	"github.com/backmassage/audioconv/internal/logging"
	"github.com/backmassage/audioconv/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// exitInterrupted is the conventional status for a run stopped by SIGINT.
const exitInterrupted = 130

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args and returns the process exit status. Nothing below it
// calls os.Exit.
func run(args []string) int {
	cfg := config.DefaultConfig()
	code := 0

	cmd := newRootCmd(&cfg, &code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "audioconv: %v\n", err)
		return 1
	}
	return code
}

// newRootCmd wires the flags onto cfg. Flag and validation errors are
// returned to run; everything after logger setup reports through the logger
// and sets *code.
func newRootCmd(cfg *config.Config, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audioconv -i <input> -f <formats> [flags]",
		Short: "Batch-convert audio files with ffmpeg",
		Long: `audioconv scans an input directory recursively and converts every audio
file into each requested format, mirroring the directory layout under
<output>/<format>/.`,
		Example: `  audioconv -i ./audios -f mp3,wav -b 192k
  audioconv -i ./calls -f wav --telephony --normalize
  audioconv -i ./audios -f flac --dry-run`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	overrides := config.BindFlags(cmd.Flags(), cfg)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		overrides.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		*code = convert(cmd.Context(), cfg)
		return nil
	}
	return cmd
}

// convert runs with a validated config and returns the exit status.
func convert(parent context.Context, cfg *config.Config) int {
	if parent == nil {
		parent = context.Background()
	}

	// Phase 1: Bootstrap. Once NewLogger succeeds, all output goes through
	// the logger for consistent formatting and log-file capture.
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audioconv: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(parent, cfg, log) {
			return 1
		}
		return 0
	}

	if cfg.ApplyTelephony() {
		log.Warn("--telephony targets wav output; %s will still be converted at %d Hz, %s",
			strings.Join(cfg.Formats, ","), cfg.SampleRate, display.FormatChannels(cfg.Channels))
	}

	// Phase 2: Resolve and validate paths. Input must be an existing
	// directory and output must not be inside input. Nothing is created here;
	// the runner creates directories only for jobs it actually executes.
	fi, err := os.Stat(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	if !fi.IsDir() {
		log.Error("Input is not a directory: %s", cfg.InputDir)
		return 1
	}
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Cannot resolve input path: %s", cfg.InputDir)
		return 1
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return 1
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return 1
	}
	// Jobs carry absolute paths so ffmpeg never reads a source name such as
	// "pipe:1.mp3" as a protocol URL.
	cfg.InputDir, cfg.OutputDir = inputAbs, outputAbs

	// Fail fast when ffmpeg is missing or broken; no job is attempted.
	exe, err := check.Locate(parent, cfg.FFmpegPath)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== audioconv v%s (%s) ===", version, commit)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM: the
	// running ffmpeg is killed and no further file is started.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping the current file and the batch")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Plan and convert.
	stats, err := pipeline.Run(ctx, cfg, exe, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	switch {
	case stats.Interrupted:
		return exitInterrupted
	case cfg.FailOnError && stats.Failed > 0:
		return 1
	default:
		return 0
	}
}

// absPath returns the absolute path with symlinks resolved as far as the
// path exists, so an output directory that has not been created yet still
// compares correctly against the input.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var rest []string
	dir := abs
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}
