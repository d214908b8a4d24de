package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/audioconv/internal/check"
	"github.com/backmassage/audioconv/internal/config"
	"github.com/backmassage/audioconv/internal/display"
	"github.com/backmassage/audioconv/internal/ffmpeg"
	"github.com/backmassage/audioconv/internal/logging"
	"github.com/backmassage/audioconv/internal/planner"
	"github.com/backmassage/audioconv/internal/probe"
)

// ErrPanic wraps a panic recovered while running a job.
var ErrPanic = errors.New("unexpected failure")

const (
	maxStderrLines = 20
	noDetails      = "ffmpeg returned no details"
)

// BuildFunc produces the full argv (executable first) for one job.
type BuildFunc func(job planner.Job) []string

// ExecFunc runs one argv. [ffmpeg.Execute] is the production implementation.
type ExecFunc func(ctx context.Context, args []string, verbose bool) ffmpeg.ExecResult

// RunOptions configures Execute.
type RunOptions struct {
	Build   BuildFunc
	Exec    ExecFunc // nil means ffmpeg.Execute.
	DryRun  bool
	Timeout time.Duration // Per job; 0 = none.
	Verbose bool

	// Inspect reads the header of every converted WAV and warns when it does
	// not match SampleRate/Channels (0 = not requested).
	Inspect    bool
	SampleRate int
	Channels   int

	RunID string
}

// Run is the top-level batch entry point. It plans the jobs, executes them
// sequentially, logs a summary, and returns aggregate stats. Only planning
// errors are returned; per-job failures are counted in the stats.
func Run(ctx context.Context, cfg *config.Config, exe check.Executable, log *logging.Logger) (RunStats, error) {
	start := time.Now()
	stats := RunStats{RunID: uuid.NewString()}

	plan, err := planner.BuildPlan(cfg.InputDir, cfg.OutputDir, cfg.Formats, cfg.Overwrite)
	if err != nil {
		return stats, err
	}
	stats.Sources = len(plan.Sources)
	stats.Planned = len(plan.Jobs)
	stats.Existing = plan.Existing
	stats.Renamed = plan.Renamed
	stats.Unreadable = len(plan.Unreadable)

	logBatchHeader(cfg, exe, log, &stats)
	for _, p := range plan.Unreadable {
		log.Warn("Skipped unreadable: %s", p)
	}

	if stats.Sources == 0 {
		log.Warn("No audio files found in %s", cfg.InputDir)
		return stats, nil
	}
	if stats.Planned == 0 {
		log.Success("Nothing to do: all %d output(s) already exist (use --overwrite to redo)", stats.Existing)
		return stats, nil
	}

	opts := ffmpeg.NewOptions(cfg)
	outcomes := Execute(ctx, plan.Jobs, RunOptions{
		Build:      func(job planner.Job) []string { return ffmpeg.Build(exe.Path, job, opts) },
		DryRun:     cfg.DryRun,
		Timeout:    cfg.JobTimeout,
		Verbose:    cfg.Verbose,
		Inspect:    cfg.ShowFileStats,
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		RunID:      stats.RunID,
	}, log)

	for _, o := range outcomes {
		stats.add(o)
	}
	// A signal during the last job kills it without leaving any job unstarted.
	stats.Interrupted = ctx.Err() != nil || stats.Attempted < stats.Planned
	stats.Elapsed = time.Since(start)

	logSummary(cfg, log, &stats)
	return stats, nil
}

// Execute runs jobs in order and returns one outcome per job reached. It
// stops early only when ctx is cancelled, so len(result) == len(jobs) for an
// uninterrupted batch.
func Execute(ctx context.Context, jobs []planner.Job, opts RunOptions, log *logging.Logger) []Outcome {
	if opts.Exec == nil {
		opts.Exec = ffmpeg.Execute
	}
	outcomes := make([]Outcome, 0, len(jobs))
	for i, job := range jobs {
		if ctx.Err() != nil {
			log.Warn("Interrupted: %d of %d job(s) not started", len(jobs)-i, len(jobs))
			break
		}
		outcomes = append(outcomes, runJob(ctx, i+1, len(jobs), job, opts, log))
	}
	return outcomes
}

// runJob handles one job: announce → build → (dry run | mkdir → exec → verify).
// A panic anywhere in here becomes a failed outcome.
func runJob(ctx context.Context, n, total int, job planner.Job, opts RunOptions, log *logging.Logger) (out Outcome) {
	out = Outcome{Job: job}
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Err = fmt.Errorf("%w: %v", ErrPanic, r)
			log.Error("[%s] %s -> %s: %v", opts.RunID, job.Source, job.Dest, out.Err)
			fmt.Println()
		}
	}()

	log.Info("[%d/%d] %s -> %s  (%s)", n, total, job.Rel, display.FormatLabel(job.Format), job.Dest)
	args := opts.Build(job)

	// --- Dry-run ---
	if opts.DryRun {
		log.Info("  CMD: %s", ffmpeg.FormatCommand(args))
		out.Status = StatusDryRun
		return out
	}
	log.Debug(opts.Verbose, "  CMD: %s", ffmpeg.FormatCommand(args))

	// --- Create output directory ---
	existed := fileExists(job.Dest)
	if err := os.MkdirAll(filepath.Dir(job.Dest), 0o755); err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("create output directory: %w", err)
		reportFailure(log, opts.RunID, &out)
		return out
	}

	// --- Execute ---
	jobCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	res := opts.Exec(jobCtx, args, opts.Verbose)
	out.Elapsed = time.Since(start)

	if res.Err != nil {
		if !existed {
			_ = os.Remove(job.Dest)
		}
		out.Status = StatusFailed
		out.Err = res.Err
		if ctx.Err() == nil && errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			out.Err = fmt.Errorf("timed out after %s: %w", opts.Timeout, res.Err)
		}
		out.Stderr = strings.TrimSpace(res.Stderr)
		out.Hint = ffmpeg.Classify(res.Stderr)
		reportFailure(log, opts.RunID, &out)
		return out
	}

	// --- Update stats ---
	out.Status = StatusConverted
	if fi, err := os.Stat(job.Dest); err == nil {
		out.Bytes = fi.Size()
	}
	log.Success("  Converted in %s (%s)", display.FormatDuration(out.Elapsed), display.FormatBytes(out.Bytes))

	if opts.Inspect && strings.EqualFold(job.Format, "wav") {
		inspectWAV(log, job.Dest, opts.SampleRate, opts.Channels)
	}
	fmt.Println()
	return out
}

// reportFailure logs a failed job with both paths, the error, the tail of
// ffmpeg's stderr, and a hint when one applies.
func reportFailure(log *logging.Logger, runID string, out *Outcome) {
	log.Error("[%s] Failed: %s -> %s", runID, out.Job.Source, out.Job.Dest)
	log.Error("  %v", out.Err)
	logStderr(log, out.Stderr)
	if out.Hint != "" {
		log.Warn("  Hint: %s", out.Hint)
	}
	fmt.Println()
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		log.Error("  (%s)", noDetails)
		return
	}
	log.Error("  Last ffmpeg output:")
	lines := strings.Split(stderr, "\n")
	start := 0
	if len(lines) > maxStderrLines {
		start = len(lines) - maxStderrLines
	}
	for _, l := range lines[start:] {
		log.Error("    %s", l)
	}
}

// inspectWAV logs the header of a freshly written WAV and warns when it
// disagrees with what was requested. Unreadable headers are warnings only.
func inspectWAV(log *logging.Logger, path string, sampleRate, channels int) {
	info, err := probe.ReadWAV(path)
	if err != nil {
		log.Warn("  Cannot inspect output: %v", err)
		return
	}
	log.Info("  Output: %d Hz | %s | %d-bit | %s",
		info.SampleRate, display.FormatChannels(info.Channels), info.BitDepth, display.FormatDuration(info.Duration))
	for _, m := range info.Mismatches(sampleRate, channels) {
		log.Warn("  Output mismatch: %s", m)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, exe check.Executable, log *logging.Logger, stats *RunStats) {
	log.Info("Run %s", stats.RunID)
	log.Debug(cfg.Verbose, "ffmpeg: %s (%s)", exe.Path, exe.Version)
	log.Info("Input:  %s", cfg.InputDir)
	log.Info("Output: %s", cfg.OutputDir)

	labels := make([]string, len(cfg.Formats))
	for i, f := range cfg.Formats {
		labels[i] = display.FormatLabel(f)
	}
	log.Info("Formats: %s", strings.Join(labels, ", "))

	var enc []string
	if cfg.Bitrate != "" {
		enc = append(enc, "bitrate "+cfg.Bitrate+" (lossy formats)")
	}
	if cfg.SampleRate > 0 {
		enc = append(enc, fmt.Sprintf("%d Hz", cfg.SampleRate))
	}
	if cfg.Channels > 0 {
		enc = append(enc, display.FormatChannels(cfg.Channels))
	}
	if cfg.Normalize {
		enc = append(enc, "loudness normalization (EBU R128)")
	}
	if len(enc) > 0 {
		log.Info("Encoding: %s", strings.Join(enc, ", "))
	}
	if cfg.Telephony {
		log.Info("Telephony preset: on")
	}
	if cfg.DryRun {
		log.Info("Dry run: commands are printed, nothing is written")
	}
	if cfg.JobTimeout > 0 {
		log.Info("Per-job timeout: %s", cfg.JobTimeout)
	}

	log.Info("Found %d audio file(s), %d job(s) planned", stats.Sources, stats.Planned)
	if stats.Existing > 0 {
		log.Info("Skipping %d existing output(s) (use --overwrite to redo)", stats.Existing)
	}
	if stats.Renamed > 0 {
		log.Warn("%d destination(s) renamed to avoid collisions", stats.Renamed)
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Run %s finished in %s", stats.RunID, display.FormatDuration(stats.Elapsed))
	log.Info("Attempted %d of %d planned job(s)", stats.Attempted, stats.Planned)
	if stats.Interrupted {
		log.Warn("Interrupted: the running job was stopped, %d job(s) not started", stats.Planned-stats.Attempted)
	}

	if cfg.DryRun {
		log.Info("  Dry run: %d command(s) printed", stats.DryRun)
	} else {
		log.Info("  Converted: %d", stats.Converted)
		log.Info("  Written:   %s", display.FormatBytes(stats.BytesWritten))
	}
	if stats.Existing > 0 {
		log.Info("  Existing (skipped): %d", stats.Existing)
	}
	if stats.Failed > 0 {
		log.Error("  Failed: %d", stats.Failed)
	} else if !cfg.DryRun && !stats.Interrupted {
		log.Success("  All jobs converted")
	}
}
