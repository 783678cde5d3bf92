package bc7

import "fmt"

// mipChainLength returns the number of levels in a full mip chain down to 1x1.
func mipChainLength(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		count++
		width = max(width/2, 1)
		height = max(height/2, 1)
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// validateMipmaps checks a largest-first chain of BC7 payloads against the
// texture dimensions.
func validateMipmaps(width, height int, mipmaps [][]byte) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if chain := mipChainLength(width, height); len(mipmaps) > chain {
		return fmt.Errorf("%w: %d levels for %dx%d, at most %d", ErrMipmapSizeMismatch, len(mipmaps), width, height, chain)
	}

	for i, mip := range mipmaps {
		expected, err := RequiredInputSize(mipDimension(width, i), mipDimension(height, i))
		if err != nil {
			return err
		}
		if len(mip) != expected {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipmapSizeMismatch, i, expected, len(mip))
		}
	}

	return nil
}
