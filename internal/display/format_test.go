package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical flac 30 MiB", 31457280, "30.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub-second", 850 * time.Millisecond, "850ms"},
		{"seconds", 12300 * time.Millisecond, "12.3s"},
		{"minutes", 4*time.Minute + 5*time.Second, "4m05s"},
		{"zero", 0, "0ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestFormatChannels(t *testing.T) {
	assert.Equal(t, "mono", FormatChannels(1))
	assert.Equal(t, "stereo", FormatChannels(2))
	assert.Equal(t, "6 ch", FormatChannels(6))
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "FLAC", FormatLabel("flac"))
	assert.Equal(t, "MP3", FormatLabel(".mp3"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\__,_|\__,_|\__,_|_|`)
}
