package planner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CollisionResolver tracks destination paths claimed by source files and
// resolves duplicates by appending " - dupN" suffixes. Two sources collide
// when they differ only by extension ("a.mp3" and "a.wav" both map to
// "wav/a.wav"). The first claimant in traversal order keeps the plain path.
// Not safe for concurrent use.
type CollisionResolver struct {
	owners   map[string]string // destination path → source that owns it
	counters map[string]int    // base destination → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final destination for source. If requested is
// unclaimed (or already owned by source) it is returned as-is; otherwise a
// " - dupN" variant is generated.
func (cr *CollisionResolver) Resolve(source, requested string) string {
	owner, exists := cr.owners[requested]
	if !exists || owner == source {
		cr.owners[requested] = source
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = source
			return candidate
		}
		counter++
	}
}
