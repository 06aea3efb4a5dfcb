// Package cli handles command-line argument parsing and validation for the
// bundlemanifest tool.
package cli
