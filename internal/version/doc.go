// Package version exposes build metadata of the sequencer binaries.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
package version
