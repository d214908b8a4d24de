// Package config holds runtime configuration: defaults, CLI flag binding, and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Telephony preset values (narrowband voice: 8 kHz, mono).
const (
	TelephonySampleRate = 8000
	TelephonyChannels   = 1
)

// DefaultOutputDir is used when --output is not given.
const DefaultOutputDir = "./convertidos"

// Sentinel errors returned by [Config.Validate].
var (
	ErrNoInput   = errors.New("missing --input directory")
	ErrNoFormats = errors.New("specify at least one format in --formats (e.g. mp3,wav,flac)")
	ErrBadFormat = errors.New("invalid format in --formats")
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// mutated by the bound CLI flags, then finalized by [Config.Validate] and
// [Config.ApplyTelephony] before being passed (by pointer) to packages that
// need it. Nothing mutates it after that.
type Config struct {
	// Paths.
	InputDir   string
	OutputDir  string // Default: "./convertidos".
	FFmpegPath string // Explicit executable or directory; empty searches PATH.

	// Targets.
	FormatsRaw string   // Raw --formats value.
	Formats    []string // Derived by Validate: lowercase, no dot, deduplicated, user order.

	// Encoding options. Zero values mean "not set": ffmpeg keeps the source value.
	Bitrate    string // Passed through to lossy encoders (e.g. "128k").
	SampleRate int    // Hz.
	Channels   int    // 1 or 2.
	Normalize  bool   // EBU R128 loudnorm.
	Telephony  bool   // 8 kHz mono defaults for unset options.

	// Behavior flags.
	Overwrite   bool
	DryRun      bool
	FailOnError bool          // Exit 1 when any job failed. Default: false.
	JobTimeout  time.Duration // Per-job limit. Default: 0 (none).

	// Display and logging.
	Verbose       bool
	ShowFileStats bool      // Default: true. Inspect WAV outputs after conversion.
	ColorMode     ColorMode // Default: "auto".
	LogFile       string    // Optional log file path.
	CheckOnly     bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with every default applied. Used as the base
// before the CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		OutputDir:     DefaultOutputDir,
		Overwrite:     false,
		DryRun:        false,
		FailOnError:   false,
		Verbose:       false,
		ShowFileStats: true,
		ColorMode:     ColorAuto,
		CheckOnly:     false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// A path made only of slashes collapses to "/" so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" && path != "" {
		return "/"
	}
	return trimmed
}

// ParseFormats splits a comma-separated format list into lowercase
// extensions without a leading dot. Empty entries are dropped and repeated
// formats keep their first position, so every format maps to one output
// subfolder.
func ParseFormats(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		f := strings.TrimLeft(strings.ToLower(strings.TrimSpace(part)), ".")
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Validate checks enum and range fields and derives Formats from FormatsRaw.
// When not in CheckOnly mode it also requires an input directory and at
// least one target format.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.Channels {
	case 0, 1, 2:
		// valid
	default:
		return fmt.Errorf("invalid channel count %d (use 1 or 2)", c.Channels)
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.JobTimeout)
	}
	c.Bitrate = strings.TrimSpace(c.Bitrate)

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return ErrNoInput
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	c.InputDir = NormalizeDirArg(c.InputDir)
	c.OutputDir = NormalizeDirArg(c.OutputDir)

	c.Formats = ParseFormats(c.FormatsRaw)
	if len(c.Formats) == 0 {
		return ErrNoFormats
	}
	for _, f := range c.Formats {
		if !isPlainFormat(f) {
			return fmt.Errorf("%w: %q (use an extension such as mp3 or wav)", ErrBadFormat, f)
		}
	}
	return nil
}

// isPlainFormat reports whether f can name a single output subfolder and
// extension: no separators, no "..", nothing that leaves the output root.
func isPlainFormat(f string) bool {
	return !strings.ContainsAny(f, `/\`) &&
		!strings.Contains(f, "..") &&
		filepath.IsLocal(f) &&
		filepath.Base(f) == f
}

// ApplyTelephony fills the narrowband voice defaults (8 kHz, mono) for the
// options the user left unset; explicit values always win. It must run after
// Validate. The returned advisory is true when wav is missing from Formats.
func (c *Config) ApplyTelephony() (advisory bool) {
	if !c.Telephony {
		return false
	}
	if c.SampleRate == 0 {
		c.SampleRate = TelephonySampleRate
	}
	if c.Channels == 0 {
		c.Channels = TelephonyChannels
	}
	return !slices.Contains(c.Formats, "wav")
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents a later run from
// discovering its own output files. Both arguments must be absolute paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
