// Package config defines the runtime settings of the sequencer binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Settings select the I/O driver and pin map, the memory image holding the
// sequencer configuration record, the tick interval and the status service
// address. Any field can be overridden by a SEQUENCER_* environment variable.
package config
