// Package check locates the ffmpeg executable, verifies it runs, and
// provides the --check diagnostics.
//
// Nothing here exits the process: every failure is a sentinel error that the
// entrypoint turns into an exit status.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backmassage/audioconv/internal/config"
	"github.com/backmassage/audioconv/internal/ffmpeg"
)

// Sentinel errors returned by Resolve, Probe and Locate.
var (
	ErrNotFound       = errors.New("ffmpeg not found on the system")
	ErrNotFoundAtPath = errors.New("ffmpeg not found at --ffmpeg path")
	ErrNotRunnable    = errors.New("cannot execute ffmpeg")
	ErrBroken         = errors.New("ffmpeg looks corrupt or is not executable")
)

const installHints = `Fixes:
  • install ffmpeg and add it to PATH, or
  • pass --ffmpeg with the full path to the executable (or its directory).

Windows:        winget install Gyan.FFmpeg   (or)   choco install ffmpeg
                or download https://www.gyan.dev/ffmpeg/builds/ and point --ffmpeg at ffmpeg.exe
macOS:          brew install ffmpeg
Ubuntu/Debian:  sudo apt-get install ffmpeg`

// Executable is a resolved, probed ffmpeg. It is created once at startup and
// passed explicitly to everything that invokes ffmpeg.
type Executable struct {
	Path    string
	Version string // First line of `ffmpeg -version`.
}

// ExecutableName is the platform's ffmpeg file name.
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// Resolve finds the ffmpeg executable. An explicit path may name the file
// itself or a directory containing it; without one, PATH is searched.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		p := expandHome(explicit)
		fi, err := os.Stat(p)
		if err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
		if err == nil && fi.IsDir() {
			cand := filepath.Join(p, ExecutableName())
			if ci, err := os.Stat(cand); err == nil && ci.Mode().IsRegular() {
				return cand, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrNotFoundAtPath, explicit)
	}

	found, err := exec.LookPath(ExecutableName())
	if err != nil {
		return "", fmt.Errorf("%w\n%s", ErrNotFound, installHints)
	}
	return found, nil
}

// Probe runs `<path> -version`. A launch failure is ErrNotRunnable; a
// nonzero exit is ErrBroken.
func Probe(ctx context.Context, path string) (Executable, error) {
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Executable{}, fmt.Errorf("%w: %s", ErrBroken, path)
		}
		return Executable{}, fmt.Errorf("%w at %s: %v", ErrNotRunnable, path, err)
	}
	return Executable{Path: path, Version: firstLine(string(out))}, nil
}

// Locate resolves and probes ffmpeg in one step.
func Locate(ctx context.Context, explicit string) (Executable, error) {
	path, err := Resolve(explicit)
	if err != nil {
		return Executable{}, err
	}
	return Probe(ctx, path)
}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: locate and probe ffmpeg, then report which
// of the encoders the codec table relies on this build provides. It returns
// false when ffmpeg is unusable; missing encoders are warnings only, since
// they affect some formats and not others.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	exe, err := Locate(ctx, cfg.FFmpegPath)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("ffmpeg: %s", exe.Path)
	if exe.Version != "" {
		log.Info("  %s", exe.Version)
	}

	available, err := ListEncoders(ctx, exe.Path)
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return true
	}
	log.Info("Audio encoders:")
	for _, enc := range ffmpeg.RequiredEncoders() {
		if available[enc] {
			log.Success("  %-10s available", enc)
		} else {
			log.Warn("  %-10s missing (formats using it will fail)", enc)
		}
	}
	return true
}

// ListEncoders parses `ffmpeg -hide_banner -encoders` into a set of encoder
// names. Lines look like " A....D libmp3lame  libmp3lame MP3 ...".
func ListEncoders(ctx context.Context, path string) (map[string]bool, error) {
	out, err := exec.CommandContext(ctx, path, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, err
	}
	return parseEncoders(string(out)), nil
}

func parseEncoders(out string) map[string]bool {
	set := make(map[string]bool)
	pastHeader := false
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.HasPrefix(fields[0], "---") {
			pastHeader = true
			continue
		}
		if !pastHeader || len(fields[0]) != 6 {
			continue
		}
		set[fields[1]] = true
	}
	return set
}

// --- internal helpers ---

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
