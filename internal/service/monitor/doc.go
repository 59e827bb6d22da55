// Package monitor polls the status service of a running sequencer and logs
// state changes, or prints every snapshot as JSON.
package monitor
