package planner

import (
	"path/filepath"
	"strings"
)

// OutputPath builds the destination for a source at rel (relative to the
// input root) converted to format:
//
//	<outputDir>/<format>/<rel without extension>.<format>
//
// Only the last extension is replaced ("live.2019.mp3" -> "live.2019.flac").
func OutputPath(outputDir, format, rel string) string {
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outputDir, format, stem+"."+format)
}
