// Package sequencer contains core domain types for the relay sequencer.
//
// It defines the persisted Config (four steps plus keying settings, sealed
// by a CRC16 checksum), its fixed binary record, and the ten-state chain
// (State) together with the pure Transition function that moves along it.
package sequencer
