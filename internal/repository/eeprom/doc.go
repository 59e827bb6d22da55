// Package eeprom implements persistence for the sequencer Config.
//
// A Store is a small byte-addressed non-volatile memory. FileStore keeps
// the image in a file on disk and MemoryStore keeps it in RAM. The
// ConfigRepository reads and writes the fixed Config record at an address
// and exposes a Repository interface that the sequencer service depends on.
package eeprom
