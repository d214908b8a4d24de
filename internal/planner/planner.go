package planner

import (
	"fmt"
	"os"
	"path/filepath"
)

// BuildPlan discovers the audio files under inputDir and produces one job per
// (source, format) pair, in discovery order and then format order.
//
// A pair whose destination already exists is left out (and counted in
// Plan.Existing) unless overwrite is set. Destinations are claimed before the
// existence check, so collision suffixes stay stable across reruns. Zero
// sources or zero jobs is a valid, empty plan.
func BuildPlan(inputDir, outputDir string, formats []string, overwrite bool) (*Plan, error) {
	sources, skipped, err := Discover(inputDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", inputDir, err)
	}

	plan := &Plan{Sources: sources, Unreadable: skipped}
	resolver := NewCollisionResolver()

	for _, src := range sources {
		rel, err := filepath.Rel(inputDir, src)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", src, err)
		}
		for _, format := range formats {
			requested := OutputPath(outputDir, format, rel)
			dest := resolver.Resolve(src, requested)
			if dest != requested {
				plan.Renamed++
			}
			if !overwrite && exists(dest) {
				plan.Existing++
				continue
			}
			plan.Jobs = append(plan.Jobs, Job{
				Source: src,
				Dest:   dest,
				Format: format,
				Rel:    rel,
			})
		}
	}
	return plan, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
