package bc7

import "encoding/binary"

// bitReader consumes a 128-bit block least-significant bit first.
type bitReader struct {
	lo, hi uint64
}

func newBitReader(src []byte) bitReader {
	return bitReader{
		lo: binary.LittleEndian.Uint64(src[0:8]),
		hi: binary.LittleEndian.Uint64(src[8:16]),
	}
}

// read returns the next n bits (n <= 8) and advances the stream.
func (r *bitReader) read(n int) uint8 {
	if n == 0 {
		return 0
	}
	v := uint8(r.lo & (1<<uint(n) - 1))
	r.skip(n)
	return v
}

func (r *bitReader) skip(n int) {
	r.lo = r.lo>>uint(n) | r.hi<<uint(64-n)
	r.hi >>= uint(n)
}
