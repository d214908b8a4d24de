package ffmpeg

import "regexp"

// Pre-compiled patterns for common ffmpeg failures. Checked in order by
// [Classify]; the first match wins.
var hints = []struct {
	re   *regexp.Regexp
	hint string
}{
	{
		regexp.MustCompile(`(?i)Unknown encoder|Encoder not found|Requested output format .* is not|Automatic encoder selection failed`),
		"this ffmpeg build lacks the encoder for the target format; run with --check",
	},
	{
		regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found|Header missing|could not find codec parameters`),
		"the source looks corrupt or is not really audio",
	},
	{
		regexp.MustCompile(`(?i)already exists\. Exiting|Not overwriting`),
		"the destination appeared during the run; use --overwrite to replace it",
	},
	{
		regexp.MustCompile(`(?i)Permission denied`),
		"check read permission on the source and write permission on the output directory",
	},
	{
		regexp.MustCompile(`(?i)No such file or directory`),
		"the source was moved or deleted after planning",
	},
	{
		regexp.MustCompile(`(?i)No space left on device`),
		"the output filesystem is full",
	},
	{
		regexp.MustCompile(`(?i)Error (parsing|initializing) (the )?filter|loudnorm`),
		"the loudness filter failed; retry without --normalize to isolate it",
	},
	{
		regexp.MustCompile(`(?i)Invalid (sample rate|channel layout)|Specified sample rate .* not supported|Unsupported channel layout`),
		"the encoder rejects the requested -r/-c combination",
	},
}

// Classify returns a one-line operator hint for a failed ffmpeg run's stderr,
// or "" when nothing recognizable matches.
func Classify(stderr string) string {
	if stderr == "" {
		return ""
	}
	for _, h := range hints {
		if h.re.MatchString(stderr) {
			return h.hint
		}
	}
	return ""
}
