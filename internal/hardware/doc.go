// Package hardware defines the capabilities the sequencer core drives:
// digital I/O pins and a monotonic millisecond clock.
//
// Bench is an in-memory implementation used by tests and by the bench
// driver, where the key and RTS lines are toggled from the console.
// Real pins are provided by the rpio subpackage.
package hardware
