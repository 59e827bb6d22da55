// Package console implements the line-oriented configuration console.
//
// Commands are matched on their first letter, case-insensitively, except for
// Init and Boot which must be typed in full. Every accepted edit is sealed,
// persisted and handed to the running sequencer before the prompt returns.
package console
