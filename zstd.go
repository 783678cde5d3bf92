package bc7

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zstd"
)

// DecodeZstd inflates a zstd stream holding a headerless BC7 block stream of
// a width x height texture and decodes it. Bytes past the block grid are
// ignored.
func DecodeZstd(r io.Reader, width, height int, opts *DecodeOptions) (*image.NRGBA, error) {
	size, err := RequiredInputSize(width, height)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrZstdDecode, err)
	}
	defer dec.Close()

	data := make([]byte, size)
	if n, err := io.ReadFull(dec, data); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: need %d bytes for %dx%d, have %d", ErrInputTooShort, size, width, height, n)
		}
		return nil, fmt.Errorf("%w: %v", ErrZstdDecode, err)
	}

	return DecodeImageWithOptions(data, width, height, opts)
}
