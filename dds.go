package bc7

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/woozymasta/bcn"
)

// ReadOptions configures container reading.
type ReadOptions struct {
	// DecodeOptions are passed to the block decoder (e.g. Workers).
	DecodeOptions *DecodeOptions
}

func (o *ReadOptions) decodeOptions() *DecodeOptions {
	if o == nil {
		return nil
	}

	return o.DecodeOptions
}

// ReadDDSConfig reads BC7 DDS dimensions without decoding image data.
func ReadDDSConfig(r io.Reader) (image.Config, error) {
	header, _, err := readHeaders(r)
	if err != nil {
		return image.Config{}, err
	}

	return headerConfig(header), nil
}

// ReadDDS reads a BC7 DDS stream and decodes its largest mip level.
func ReadDDS(r io.Reader, opts *ReadOptions) (*image.NRGBA, error) {
	header, _, err := readHeaders(r)
	if err != nil {
		return nil, err
	}

	return decodeTopLevel(r, header, opts)
}

// decodeTopLevel reads the largest level that directly follows the headers.
func decodeTopLevel(r io.Reader, header *bcn.DDSHeader, opts *ReadOptions) (*image.NRGBA, error) {
	width, height := int(header.Width), int(header.Height)
	size, err := RequiredInputSize(width, height)
	if err != nil {
		return nil, err
	}

	data, err := readExactly(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %v", ErrPayloadRead, width, height, err)
	}

	return DecodeImageWithOptions(data, width, height, opts.decodeOptions())
}

// readExactly reads size bytes without preallocating them, so a header that
// overstates the payload fails at EOF.
func readExactly(r io.Reader, size int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, err
	}
	if len(data) < size {
		return nil, fmt.Errorf("%w: have %d of %d bytes", io.ErrUnexpectedEOF, len(data), size)
	}

	return data, nil
}

// WriteDDS writes pre-encoded BC7 mip payloads as a DDS file with a DX10 header.
// The mipmaps slice must be ordered from largest to smallest.
func WriteDDS(w io.Writer, width, height int, mipmaps [][]byte) error {
	header, err := containerHeader(width, height, mipmaps, false)
	if err != nil {
		return err
	}
	if err := writeHeaders(w, header); err != nil {
		return err
	}

	for i, mip := range mipmaps {
		if _, err := w.Write(mip); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWritePayload, i, err)
		}
	}

	return nil
}

// containerHeader validates payloads and builds the matching DDS header.
func containerHeader(width, height int, mipmaps [][]byte, enfusion bool) (*bcn.DDSHeader, error) {
	if err := validateMipmaps(width, height, mipmaps); err != nil {
		return nil, err
	}

	w32, err := u32FromInt(width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, err
	}
	mip32, err := u32FromInt(len(mipmaps))
	if err != nil {
		return nil, err
	}
	linear32, err := u32FromInt(len(mipmaps[0]))
	if err != nil {
		return nil, err
	}

	return makeDDSHeader(w32, h32, mip32, linear32, enfusion), nil
}

func headerConfig(header *bcn.DDSHeader) image.Config {
	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}
}
