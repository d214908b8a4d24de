package ffmpeg

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/audioconv/internal/config"
	"github.com/backmassage/audioconv/internal/planner"
)

// LoudnormFilter is the one-pass EBU R128 target: -16 LUFS integrated,
// 11 LU range, -1.5 dBTP true peak, linear mode.
const LoudnormFilter = "loudnorm=I=-16:LRA=11:TP=-1.5:linear=true"

// Options are the user-supplied encoding choices shared by every job.
// Zero values mean "not set".
type Options struct {
	Bitrate    string
	SampleRate int
	Channels   int
	Normalize  bool
	Overwrite  bool
}

// NewOptions snapshots the encoding fields of a finalized Config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Bitrate:    cfg.Bitrate,
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		Normalize:  cfg.Normalize,
		Overwrite:  cfg.Overwrite,
	}
}

// Build constructs the complete argv for one job, executable first. It is
// pure: no filesystem access, and equal inputs give equal output.
func Build(exe string, job planner.Job, opts Options) []string {
	args := make([]string, 0, 20)

	// --- Preamble ---
	args = append(args, exe, "-hide_banner", "-nostdin", "-loglevel", "error")
	if opts.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	// --- Input ---
	args = append(args, "-i", job.Source)

	// --- Filters ---
	if opts.Normalize {
		args = append(args, "-af", LoudnormFilter)
	}

	// --- Codec (by destination extension) ---
	codec := CodecFor(filepath.Ext(job.Dest))
	if codec.Encoder != "" {
		args = append(args, "-c:a", codec.Encoder)
	}
	if codec.Bitrate && opts.Bitrate != "" {
		args = append(args, "-b:a", opts.Bitrate)
	}

	// --- Sample rate and channels (any encoder) ---
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}
	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}

	// --- Output ---
	args = append(args, job.Dest)
	return args
}

// FormatCommand renders argv as one shell-pasteable line. Arguments holding
// whitespace or shell metacharacters are single-quoted.
func FormatCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`&;|<>()*?[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
