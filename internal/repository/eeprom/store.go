package eeprom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Erased is the value of a byte that was never written.
const Erased = 0xFF

// DefaultFilePermissions is the permission of a newly created image file.
const DefaultFilePermissions = 0o600

// Store reads and writes bytes at an address.
type Store interface {
	ReadAt(address int, length int) ([]byte, error)
	WriteAt(address int, data []byte) error
}

// ErrAddress is returned for negative addresses or lengths.
var ErrAddress = errors.New("invalid address")

// FileStore keeps the memory image in a file. Bytes past the end of the
// file, or in a file that does not exist yet, read as Erased.
type FileStore struct {
	// path is the filesystem location of the image.
	path string
	// mu protects concurrent access to the image file.
	mu sync.Mutex
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// ReadAt reads length bytes starting at address.
func (s *FileStore) ReadAt(address, length int) ([]byte, error) {
	if address < 0 || length < 0 {
		return nil, ErrAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := erasedBytes(length)

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}

		return nil, fmt.Errorf("open eeprom image: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	// A short read leaves the tail erased.
	if _, err = file.ReadAt(data, int64(address)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read eeprom image: %w", err)
	}

	return data, nil
}

// WriteAt writes data starting at address, growing the image with erased
// bytes when needed.
func (s *FileStore) WriteAt(address int, data []byte) error {
	if address < 0 {
		return ErrAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open eeprom image: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat eeprom image: %w", err)
	}

	if gap := int64(address) - info.Size(); gap > 0 {
		if _, err = file.WriteAt(erasedBytes(int(gap)), info.Size()); err != nil {
			_ = file.Close()
			return fmt.Errorf("pad eeprom image: %w", err)
		}
	}

	if _, err = file.WriteAt(data, int64(address)); err != nil {
		_ = file.Close()
		return fmt.Errorf("write eeprom image: %w", err)
	}

	if err = file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync eeprom image: %w", err)
	}

	return file.Close()
}

// MemoryStore keeps the memory image in RAM.
type MemoryStore struct {
	data []byte
	mu   sync.Mutex
}

// NewMemoryStore returns an erased store of size bytes.
func NewMemoryStore(size int) *MemoryStore {
	return &MemoryStore{data: erasedBytes(size)}
}

// ReadAt reads length bytes starting at address.
func (s *MemoryStore) ReadAt(address, length int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if address < 0 || length < 0 || address+length > len(s.data) {
		return nil, fmt.Errorf("%w: %d+%d exceeds %d bytes", ErrAddress, address, length, len(s.data))
	}

	out := make([]byte, length)
	copy(out, s.data[address:])

	return out, nil
}

// WriteAt writes data starting at address.
func (s *MemoryStore) WriteAt(address int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if address < 0 || address+len(data) > len(s.data) {
		return fmt.Errorf("%w: %d+%d exceeds %d bytes", ErrAddress, address, len(data), len(s.data))
	}

	copy(s.data[address:], data)

	return nil
}

func erasedBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = Erased
	}

	return data
}
