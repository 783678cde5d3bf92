// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bc7

package bc7

const (
	maxInt    = int(^uint(0) >> 1)
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))
)

// i32FromInt converts an int to an int32.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// mulSize multiplies non-negative sizes, failing on int overflow.
func mulSize(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrSizeOverflow
	}
	if a != 0 && b > maxInt/a {
		return 0, ErrSizeOverflow
	}

	return a * b, nil
}

// blocksFor returns the number of 4-pixel blocks needed to cover n pixels.
func blocksFor(n int) int {
	return n/BlockDim + min(n%BlockDim, 1)
}
