package probe

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrNotWAV is returned when a file lacks a readable PCM WAV header.
var ErrNotWAV = errors.New("not a valid WAV file")

// WAVInfo is the header summary of a WAV file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ReadWAV opens path and decodes its WAV header.
func ReadWAV(path string) (*WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}
	dur, err := d.Duration()
	if err != nil {
		return nil, fmt.Errorf("%s: duration: %w", path, err)
	}
	return &WAVInfo{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}

// Mismatches compares the header against the requested sample rate and
// channel count (0 = not requested) and describes each difference.
func (w *WAVInfo) Mismatches(sampleRate, channels int) []string {
	var out []string
	if sampleRate > 0 && w.SampleRate != sampleRate {
		out = append(out, fmt.Sprintf("sample rate %d Hz, requested %d Hz", w.SampleRate, sampleRate))
	}
	if channels > 0 && w.Channels != channels {
		out = append(out, fmt.Sprintf("%d channel(s), requested %d", w.Channels, channels))
	}
	return out
}
