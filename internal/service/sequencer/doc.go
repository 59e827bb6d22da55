// Package sequencer runs the relay sequencer process: it loads the settings
// and the stored configuration, drives the tick loop over the selected I/O
// driver, serves the status API and hosts the configuration console.
package sequencer
