// Package probe inspects converted output files.
//
// Only WAV is inspected: its RIFF header is read directly (go-audio/wav)
// without another ffmpeg/ffprobe round trip, which is enough to confirm the
// sample rate, channel count and bit depth a job asked for. Other containers
// are trusted to ffmpeg's exit status.
package probe
