package planner

// Job is one planned (source file, target format) conversion. It is created
// by BuildPlan and consumed once by the runner.
type Job struct {
	Source string // Absolute or input-rooted path of the source file.
	Dest   string // Destination path under <output>/<format>/.
	Format string // Target extension, lowercase, no dot.
	Rel    string // Source path relative to the input root (for display).
}

// Plan is the result of BuildPlan.
type Plan struct {
	Sources  []string // Discovered audio files, in traversal order.
	Jobs     []Job    // Jobs to run, in execution order.
	Existing int      // (source, format) pairs skipped because the destination exists.
	Renamed  int      // Destinations renamed to avoid a collision.

	Unreadable []string // Entries under the input that could not be read, skipped.
}
