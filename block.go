package bc7

import (
	"image/color"
	"math/bits"
)

const (
	// BlockSize is the size of one compressed block in bytes.
	BlockSize = 16
	// BlockDim is the width and height of one block in pixels.
	BlockDim = 4
	// PixelsPerBlock is the number of pixels covered by one block.
	PixelsPerBlock = BlockDim * BlockDim

	blockRGBASize = PixelsPerBlock * 4
	maxSubsets    = 3
)

// Block is one 128-bit BC7 block.
type Block [BlockSize]byte

// BlockMode returns the block's mode (0..7), or -1 when no mode bit is set.
func BlockMode(b *Block) int {
	return blockMode(b[0])
}

func blockMode(first byte) int {
	if first == 0 {
		return -1
	}
	return bits.TrailingZeros8(first)
}

// DecodeBlock decodes one block into 16 pixels in row-major order.
// Malformed blocks decode to transparent black.
func DecodeBlock(b *Block) [PixelsPerBlock]color.NRGBA {
	var rgba [blockRGBASize]byte
	decodeBlock(b[:], rgba[:])

	var out [PixelsPerBlock]color.NRGBA
	for i := range out {
		p := rgba[i*4 : i*4+4]
		out[i] = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}

	return out
}

// endpoint is one RGBA endpoint; channels hold raw bits until expanded.
type endpoint [4]uint8

// decodeBlock decodes src (16 bytes) into dst (64 RGBA bytes).
func decodeBlock(src, dst []byte) {
	_ = src[BlockSize-1]
	_ = dst[blockRGBASize-1]

	mode := blockMode(src[0])
	if mode < 0 {
		clear(dst[:blockRGBASize])
		return
	}
	m := &modes[mode]

	r := newBitReader(src)
	r.skip(mode + 1)
	partition := r.read(m.partitionBits)
	rotation := r.read(m.rotationBits)
	selector := r.read(m.selectorBits)

	// Channels are stored planar: every R, then every G, then every B, then A.
	var ep [maxSubsets][2]endpoint
	for c := 0; c < 3; c++ {
		for s := 0; s < m.subsets; s++ {
			ep[s][0][c] = r.read(m.colorBits)
			ep[s][1][c] = r.read(m.colorBits)
		}
	}
	if m.alphaBits > 0 {
		for s := 0; s < m.subsets; s++ {
			ep[s][0][3] = r.read(m.alphaBits)
			ep[s][1][3] = r.read(m.alphaBits)
		}
	}

	colorBits, alphaBits := m.colorBits, m.alphaBits
	switch {
	case m.endpointPBits:
		for s := 0; s < m.subsets; s++ {
			for e := 0; e < 2; e++ {
				appendPBit(&ep[s][e], r.read(1), m.alphaBits > 0)
			}
		}
	case m.sharedPBits:
		for s := 0; s < m.subsets; s++ {
			p := r.read(1)
			appendPBit(&ep[s][0], p, m.alphaBits > 0)
			appendPBit(&ep[s][1], p, m.alphaBits > 0)
		}
	}
	if m.endpointPBits || m.sharedPBits {
		colorBits++
		if alphaBits > 0 {
			alphaBits++
		}
	}

	for s := 0; s < m.subsets; s++ {
		for e := 0; e < 2; e++ {
			for c := 0; c < 3; c++ {
				ep[s][e][c] = expandBits(ep[s][e][c], colorBits)
			}
			if alphaBits > 0 {
				ep[s][e][3] = expandBits(ep[s][e][3], alphaBits)
			} else {
				ep[s][e][3] = 0xff
			}
		}
	}

	var indices [PixelsPerBlock]uint8
	for i := range indices {
		n := m.indexBits
		if isAnchor(m.subsets, partition, i) {
			n--
		}
		indices[i] = r.read(n)
	}

	colorIdx, alphaIdx := &indices, &indices
	colorIdxBits, alphaIdxBits := m.indexBits, m.indexBits

	var alphaIndices [PixelsPerBlock]uint8
	if m.alphaIndexBits > 0 {
		for i := range alphaIndices {
			n := m.alphaIndexBits
			if i == 0 {
				n--
			}
			alphaIndices[i] = r.read(n)
		}
		alphaIdx, alphaIdxBits = &alphaIndices, m.alphaIndexBits
		if selector == 1 {
			colorIdx, alphaIdx = alphaIdx, colorIdx
			colorIdxBits, alphaIdxBits = alphaIdxBits, colorIdxBits
		}
	}

	for i := 0; i < PixelsPerBlock; i++ {
		s := subsetOf(m.subsets, partition, i)
		e0, e1 := &ep[s][0], &ep[s][1]
		cw := weight(colorIdxBits, colorIdx[i])
		aw := weight(alphaIdxBits, alphaIdx[i])

		p := dst[i*4 : i*4+4]
		p[0] = interpolate(e0[0], e1[0], cw)
		p[1] = interpolate(e0[1], e1[1], cw)
		p[2] = interpolate(e0[2], e1[2], cw)
		p[3] = interpolate(e0[3], e1[3], aw)

		if rotation != 0 {
			p[3], p[rotation-1] = p[rotation-1], p[3]
		}
	}
}

// appendPBit shifts p in as the new low bit of every stored channel.
func appendPBit(e *endpoint, p uint8, withAlpha bool) {
	e[0] = e[0]<<1 | p
	e[1] = e[1]<<1 | p
	e[2] = e[2]<<1 | p
	if withAlpha {
		e[3] = e[3]<<1 | p
	}
}
