package bc7

import (
	"fmt"
	"image"
	"runtime"
	"sync"
)

// DecodeOptions configures texture decoding.
type DecodeOptions struct {
	// Workers is the number of goroutines decoding block rows.
	// 1 decodes on the calling goroutine, <= 0 uses GOMAXPROCS.
	Workers int
}

// RequiredInputSize returns the compressed stream size for a width x height texture.
func RequiredInputSize(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	blocks, err := mulSize(blocksFor(width), blocksFor(height))
	if err != nil {
		return 0, err
	}

	return mulSize(blocks, BlockSize)
}

// RequiredOutputSize returns the RGBA8 buffer size for a width x height texture.
func RequiredOutputSize(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	pixels, err := mulSize(width, height)
	if err != nil {
		return 0, err
	}

	return mulSize(pixels, 4)
}

// DecodeTexture decodes a BC7 block stream into a tightly packed RGBA8 buffer
// with stride width*4. Both buffer lengths are checked before any pixel is
// written.
func DecodeTexture(compressed []byte, width, height int, output []byte) error {
	return DecodeTextureWithOptions(compressed, width, height, output, nil)
}

// DecodeTextureWithOptions is DecodeTexture with optional parallel decoding.
// Nil opts decodes sequentially.
func DecodeTextureWithOptions(compressed []byte, width, height int, output []byte, opts *DecodeOptions) error {
	need, err := RequiredInputSize(width, height)
	if err != nil {
		return err
	}
	if len(compressed) < need {
		return fmt.Errorf("%w: need %d bytes for %dx%d, have %d", ErrInputTooShort, need, width, height, len(compressed))
	}

	outNeed, err := RequiredOutputSize(width, height)
	if err != nil {
		return err
	}
	if len(output) < outNeed {
		return fmt.Errorf("%w: need %d bytes for %dx%d, have %d", ErrOutputTooShort, outNeed, width, height, len(output))
	}

	if need == 0 {
		return nil
	}

	rows := blocksFor(height)
	workers := workerCount(opts, rows)
	if workers == 1 {
		decodeRows(compressed, width, height, output, 0, 1)
		return nil
	}

	// Workers take interleaved block rows; rows never share input or output bytes.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			decodeRows(compressed, width, height, output, first, workers)
		}(w)
	}
	wg.Wait()

	return nil
}

// DecodeImage decodes a BC7 block stream into a new image.
func DecodeImage(data []byte, width, height int) (*image.NRGBA, error) {
	return DecodeImageWithOptions(data, width, height, nil)
}

// DecodeImageWithOptions decodes a BC7 block stream into a new image with the given options.
func DecodeImageWithOptions(data []byte, width, height int, opts *DecodeOptions) (*image.NRGBA, error) {
	if _, err := RequiredOutputSize(width, height); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if err := DecodeTextureWithOptions(data, width, height, img.Pix, opts); err != nil {
		return nil, err
	}

	return img, nil
}

func workerCount(opts *DecodeOptions, rows int) int {
	if opts == nil {
		return 1
	}

	n := opts.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	return max(min(n, rows), 1)
}

// decodeRows decodes block rows first, first+step, ... and scatters their
// pixels into output, clipping edge blocks to width x height.
func decodeRows(compressed []byte, width, height int, output []byte, first, step int) {
	cols, rows := blocksFor(width), blocksFor(height)
	stride := width * 4

	var rgba [blockRGBASize]byte
	for by := first; by < rows; by += step {
		for bx := 0; bx < cols; bx++ {
			off := (by*cols + bx) * BlockSize
			decodeBlock(compressed[off:off+BlockSize], rgba[:])

			x0, y0 := bx*BlockDim, by*BlockDim
			w := min(BlockDim, width-x0)
			h := min(BlockDim, height-y0)
			for dy := 0; dy < h; dy++ {
				dstOff := (y0+dy)*stride + x0*4
				copy(output[dstOff:dstOff+w*4], rgba[dy*BlockDim*4:dy*BlockDim*4+w*4])
			}
		}
	}
}
