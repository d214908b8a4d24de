// Package planner turns an input tree and a list of target formats into an
// ordered list of conversion jobs.
//
// Files:
//   - discover.go: recursive scan filtered by supported audio extensions
//   - outputpath.go: <output>/<format>/<relative path>.<format>
//   - collision.go: first-claimant-wins resolution of shared destinations
//   - planner.go: BuildPlan, the (source × format) loop with skip-existing
//
// Planning never writes to disk. Jobs come out in discovery order, and each
// source's jobs follow the user's format order, so a dry run on an unchanged
// tree always prints the same commands.
package planner
