package bc7

import (
	"fmt"
	"image"
	"io"
	"os"
)

// ReadConfig reads BC7 DDS/EDDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadDDSConfig(f)
}

// Read reads a BC7 DDS or EDDS file and decodes its largest mip level.
// Nil opts decodes sequentially.
func Read(path string, opts *ReadOptions) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return readContainer(f, opts)
}

// readContainer decodes a DDS or EDDS stream. EDDS is recognised by a block
// table magic right after the headers.
func readContainer(r io.ReadSeeker, opts *ReadOptions) (*image.NRGBA, error) {
	header, _, err := readHeaders(r)
	if err != nil {
		return nil, err
	}

	edds, err := hasBlockTable(r)
	if err != nil {
		return nil, err
	}
	if edds {
		return decodeLargestBody(r, header, opts)
	}

	return decodeTopLevel(r, header, opts)
}

// hasBlockTable peeks at the next four bytes and rewinds.
func hasBlockTable(r io.ReadSeeker) (bool, error) {
	var magic [4]byte
	n, err := io.ReadFull(r, magic[:])
	if _, serr := r.Seek(-int64(n), io.SeekCurrent); serr != nil {
		return false, fmt.Errorf("%w: %v", ErrPeekContainer, serr)
	}
	if err != nil {
		// Too short for a table; let the payload read report the truncation.
		return false, nil
	}

	m := string(magic[:])
	return m == BodyMagicCOPY || m == BodyMagicLZ4, nil
}
