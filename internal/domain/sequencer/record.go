package sequencer

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Record layout: 4 x 3-byte steps, RTS and CTS flags, timeout, checksum.
// The layout has no version field; any change is caught by the checksum.
const (
	stepRecordSize = 3
	rtsOffset      = StepCount * stepRecordSize
	ctsOffset      = rtsOffset + 1
	timeoutOffset  = ctsOffset + 1
	checksumOffset = timeoutOffset + 2

	// RecordSize is the size of the persisted configuration image in bytes.
	RecordSize = checksumOffset + 2
)

// ErrRecordSize is returned when a configuration image has the wrong length.
var ErrRecordSize = errors.New("invalid configuration record size")

// record encodes the configuration into its fixed image.
func (c *Config) record() [RecordSize]byte {
	var buf [RecordSize]byte

	for i, step := range c.Steps {
		offset := i * stepRecordSize
		buf[offset] = byte(step.RxPolarity)
		buf[offset+1] = step.TxDelay
		buf[offset+2] = step.RxDelay
	}

	buf[rtsOffset] = boolByte(c.Keying.RTSEnable)
	buf[ctsOffset] = boolByte(c.Keying.CTSEnable)
	binary.LittleEndian.PutUint16(buf[timeoutOffset:], c.Keying.Timeout)
	binary.LittleEndian.PutUint16(buf[checksumOffset:], c.Checksum)

	return buf
}

// MarshalBinary returns the persisted image of the configuration.
// The checksum is written as stored; call Seal first after a mutation.
func (c *Config) MarshalBinary() ([]byte, error) {
	buf := c.record()

	return buf[:], nil
}

// UnmarshalBinary decodes a persisted image. It does not check the
// checksum: an image read from erased or stale storage decodes fine and
// is reported by Valid.
func (c *Config) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRecordSize, len(data), RecordSize)
	}

	for i := range c.Steps {
		offset := i * stepRecordSize
		c.Steps[i] = StepConfig{
			RxPolarity: Polarity(data[offset]),
			TxDelay:    data[offset+1],
			RxDelay:    data[offset+2],
		}
	}

	c.Keying = KeyingConfig{
		RTSEnable: data[rtsOffset] != 0,
		CTSEnable: data[ctsOffset] != 0,
		Timeout:   binary.LittleEndian.Uint16(data[timeoutOffset:]),
	}
	c.Checksum = binary.LittleEndian.Uint16(data[checksumOffset:])

	return nil
}

func boolByte(v bool) byte {
	if v {
		return 1
	}

	return 0
}
