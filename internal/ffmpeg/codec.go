package ffmpeg

import "strings"

// Codec is the encoder choice for one destination extension.
type Codec struct {
	Encoder string // ffmpeg -c:a value; empty lets ffmpeg pick from the extension.
	Bitrate bool   // Whether a user bitrate applies (lossy encoders only).
}

// Encoder identifiers passed to -c:a.
const (
	EncoderMP3    = "libmp3lame"
	EncoderAAC    = "aac"
	EncoderOpus   = "libopus"
	EncoderVorbis = "libvorbis"
	EncoderFLAC   = "flac"
	EncoderPCM16  = "pcm_s16le"
)

// codecs maps a lowercase destination extension (no dot) to its encoder.
// Extensions not listed fall back to [fallbackCodec].
var codecs = map[string]Codec{
	"mp3":  {Encoder: EncoderMP3, Bitrate: true},
	"aac":  {Encoder: EncoderAAC, Bitrate: true},
	"m4a":  {Encoder: EncoderAAC, Bitrate: true},
	"opus": {Encoder: EncoderOpus, Bitrate: true},
	"ogg":  {Encoder: EncoderVorbis, Bitrate: true},
	"flac": {Encoder: EncoderFLAC, Bitrate: false},
	"wav":  {Encoder: EncoderPCM16, Bitrate: false},
	"aiff": {Encoder: EncoderPCM16, Bitrate: false},
	"aif":  {Encoder: EncoderPCM16, Bitrate: false},
}

var fallbackCodec = Codec{Encoder: "", Bitrate: true}

// CodecFor returns the codec for a destination extension, with or without a
// leading dot, in any case.
func CodecFor(ext string) Codec {
	if c, ok := codecs[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return c
	}
	return fallbackCodec
}

// RequiredEncoders lists the distinct encoders the codec table can select,
// in a stable order. Used by the --check diagnostics.
func RequiredEncoders() []string {
	return []string{EncoderMP3, EncoderAAC, EncoderOpus, EncoderVorbis, EncoderFLAC, EncoderPCM16}
}
