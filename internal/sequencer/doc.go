// Package sequencer is the keyed relay-sequencing engine.
//
// Each tick reads the key and RTS lines, combines them into one Key signal,
// gates it with the transmit timeout guard, and advances the Machine one
// step along the Rx/Tx chain, writing relay and CTS outputs as it goes.
// The Engine owns all of that state; it is driven by Run at a fixed period
// or by calling Tick directly.
package sequencer
