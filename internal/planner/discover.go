package planner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Supported source extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".wma":  true,
	".aiff": true,
	".aif":  true,
	".opus": true,
	".caf":  true,
}

// IsAudioFile reports whether path has a supported source extension
// (case-insensitive).
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover walks inputDir and collects regular files (or symlinks to regular
// files) with a supported audio extension. Paths are returned in
// filepath.WalkDir order, which is lexical per directory and therefore
// deterministic for a fixed tree.
//
// Entries below inputDir that cannot be read (typically folders without
// permission) are skipped and returned in skipped; only an unreadable
// inputDir itself is an error.
func Discover(inputDir string) (files, skipped []string, err error) {
	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir {
				return err
			}
			skipped = append(skipped, path)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsAudioFile(path) {
			return nil
		}
		if !d.Type().IsRegular() {
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, skipped, nil
}
