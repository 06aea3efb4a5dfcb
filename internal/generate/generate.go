// Package generate folds the final descriptor sequence into the manifest
// value, starting from a seed that may be shared across several builds.
package generate

import (
	"fmt"

	"github.com/vk/bundlemanifest/internal/descriptor"
)

// Manifest is the default manifest shape: logical name to emitted path.
type Manifest = map[string]string

// Func produces the manifest value from the seed and the post-pipeline
// descriptor sequence. The return value is used verbatim.
type Func func(seed any, files []descriptor.File) any

// Default sets seed[name] = path for every descriptor, in sequence order, on
// the seed itself, and returns it. Mutating the seed in place is what lets
// several builds sharing one seed accumulate into a single manifest; it also
// makes seed identity part of the contract (see the coordinate package for
// what is and is not serialized across builds).
func Default(seed any, files []descriptor.File) any {
	var m Manifest
	switch s := seed.(type) {
	case nil:
		m = Manifest{}
	case Manifest:
		m = s
	default:
		// A non-map seed only makes sense with a custom generator; reaching
		// the default fold with one is a configuration error.
		panic(fmt.Sprintf("generate: default generator requires a map[string]string seed, got %T", seed))
	}
	for _, f := range files {
		m[f.Name] = f.Path
	}
	return m
}
