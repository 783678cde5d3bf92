package bc7

import (
	"fmt"
	"os"
)

// WriteDDSFile writes pre-encoded BC7 mip payloads to a DDS file.
func WriteDDSFile(path string, width, height int, mipmaps [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return WriteDDS(f, width, height, mipmaps)
}

// WriteEDDSFile writes pre-encoded BC7 mip payloads to an EDDS file.
// Nil opts stores COPY bodies.
func WriteEDDSFile(path string, width, height int, mipmaps [][]byte, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return WriteEDDS(f, width, height, mipmaps, opts)
}
