package config

// This file binds the CLI flags onto a cobra/pflag FlagSet.
// Negated flags (e.g. --no-stats) are collected separately and applied after
// parsing so Config defaults hold unless the user passes the flag.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Overrides holds boolean flags that are applied to Config after parsing.
// They either invert a default (noStats -> ShowFileStats=false) or pick the
// color mode.
type Overrides struct {
	noStats    bool
	forceColor bool
	noColor    bool
}

// BindFlags registers every conversion flag on fs, writing straight into cfg.
// Call [Overrides.Apply] on the result once parsing has finished.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Overrides {
	var o Overrides

	defineInputFlags(fs, cfg)
	defineEncodingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &o)

	fs.SortFlags = false
	return &o
}

// defineInputFlags registers -i/--input, -o/--output, -f/--formats, --ffmpeg.
func defineInputFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.InputDir, "input", "i", cfg.InputDir, "Input directory (scanned recursively)")
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Output directory")
	fs.StringVarP(&cfg.FormatsRaw, "formats", "f", cfg.FormatsRaw, "Comma-separated target formats (e.g. mp3,wav,flac,ogg,opus,aac,m4a)")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg executable or its directory")
}

// defineEncodingFlags registers -b/--bitrate, -r/--samplerate, -c/--channels,
// --normalize, --telephony.
func defineEncodingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Bitrate, "bitrate", "b", cfg.Bitrate, "Bitrate for lossy formats (e.g. 128k, 192k, 256k)")
	fs.VarP(&sampleRateValue{&cfg.SampleRate}, "samplerate", "r", "Sample rate in Hz (e.g. 44100, 48000, 8000)")
	fs.VarP(&channelsValue{&cfg.Channels}, "channels", "c", "Channels: 1 (mono) | 2 (stereo)")
	fs.BoolVar(&cfg.Normalize, "normalize", cfg.Normalize, "Normalize loudness (loudnorm, EBU R128)")
	fs.BoolVar(&cfg.Telephony, "telephony", cfg.Telephony, "Telephony preset: 8 kHz mono unless -r/-c are given (meant for wav)")
}

// defineBehaviorFlags registers --overwrite, --dry-run, --timeout, --fail-on-error.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Replace destination files that already exist")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Print the ffmpeg commands without running them")
	fs.DurationVar(&cfg.JobTimeout, "timeout", cfg.JobTimeout, "Per-file ffmpeg time limit (e.g. 5m); 0 disables")
	fs.BoolVar(&cfg.FailOnError, "fail-on-error", cfg.FailOnError, "Exit with status 1 when any conversion failed")
}

// defineDisplayFlags registers --color, --no-color, --no-stats, verbose, --check, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, o *Overrides) {
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&o.noStats, "no-stats", false, "Do not inspect converted WAV files")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output (shows ffmpeg commands and diagnostics)")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "Run ffmpeg diagnostics and exit")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
}

// Apply copies negated and override flag values into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o.noStats {
		cfg.ShowFileStats = false
	}
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// pflag.Value adapters so range-checked integers fail at parse time with a
// message naming the flag.

type sampleRateValue struct{ p *int }

func (v *sampleRateValue) String() string {
	if v.p == nil || *v.p == 0 {
		return ""
	}
	return strconv.Itoa(*v.p)
}

func (v *sampleRateValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("sample rate must be a positive whole number (got %q)", s)
	}
	*v.p = n
	return nil
}

func (v *sampleRateValue) Type() string { return "int" }

type channelsValue struct{ p *int }

func (v *channelsValue) String() string {
	if v.p == nil || *v.p == 0 {
		return ""
	}
	return strconv.Itoa(*v.p)
}

func (v *channelsValue) Set(s string) error {
	switch strings.TrimSpace(s) {
	case "1":
		*v.p = 1
	case "2":
		*v.p = 2
	default:
		return fmt.Errorf("invalid channel count %q (use 1 or 2)", s)
	}
	return nil
}

func (v *channelsValue) Type() string { return "int" }
