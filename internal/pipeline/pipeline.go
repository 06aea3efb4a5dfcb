// Package pipeline applies the user-configurable transform stages to a
// descriptor sequence: filter, then map, then sort, each optional. The
// pipeline never deduplicates; a map stage that collapses names onto the same
// key relies on the generator's last-write-wins fold.
package pipeline

import (
	"slices"

	"github.com/vk/bundlemanifest/internal/descriptor"
)

// Filter decides whether a descriptor stays in the sequence.
type Filter func(descriptor.File) bool

// Map rewrites a descriptor. It may change any field, including Name and
// Path, which is how arbitrary renaming is expressed.
type Map func(descriptor.File) descriptor.File

// Sort is a three-way comparator over descriptors.
type Sort func(a, b descriptor.File) int

// Pipeline holds the configured stages. Unset stages are skipped.
type Pipeline struct {
	Filter Filter
	Map    Map
	Sort   Sort
}

// Run applies the stages in their fixed order and returns the result. The
// input slice is not modified.
func (p Pipeline) Run(files []descriptor.File) []descriptor.File {
	out := make([]descriptor.File, 0, len(files))
	for _, f := range files {
		if p.Filter != nil && !p.Filter(f) {
			continue
		}
		out = append(out, f)
	}
	if p.Map != nil {
		for i := range out {
			out[i] = p.Map(out[i])
		}
	}
	if p.Sort != nil {
		slices.SortStableFunc(out, p.Sort)
	}
	return out
}
