package bc7

// modeInfo is the fixed field layout of one BC7 mode.
type modeInfo struct {
	subsets        int
	partitionBits  int
	rotationBits   int
	selectorBits   int
	colorBits      int
	alphaBits      int
	endpointPBits  bool // one p-bit per endpoint
	sharedPBits    bool // one p-bit per subset, shared by both endpoints
	indexBits      int
	alphaIndexBits int // non-zero when alpha has its own index stream
}

const numModes = 8

var modes = [numModes]modeInfo{
	{subsets: 3, partitionBits: 4, colorBits: 4, endpointPBits: true, indexBits: 3},
	{subsets: 2, partitionBits: 6, colorBits: 6, sharedPBits: true, indexBits: 3},
	{subsets: 3, partitionBits: 6, colorBits: 5, indexBits: 2},
	{subsets: 2, partitionBits: 6, colorBits: 7, endpointPBits: true, indexBits: 2},
	{subsets: 1, rotationBits: 2, selectorBits: 1, colorBits: 5, alphaBits: 6, indexBits: 2, alphaIndexBits: 3},
	{subsets: 1, rotationBits: 2, colorBits: 7, alphaBits: 8, indexBits: 2, alphaIndexBits: 2},
	{subsets: 1, colorBits: 7, alphaBits: 7, endpointPBits: true, indexBits: 4},
	{subsets: 2, partitionBits: 6, colorBits: 5, alphaBits: 5, endpointPBits: true, indexBits: 2},
}

var (
	weights2 = [4]uint32{0, 21, 43, 64}
	weights3 = [8]uint32{0, 9, 18, 27, 37, 46, 55, 64}
	weights4 = [16]uint32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

// weight returns the interpolation weight (out of 64) for an index of the given width.
func weight(bits int, index uint8) uint32 {
	switch bits {
	case 2:
		return weights2[index&3]
	case 3:
		return weights3[index&7]
	default:
		return weights4[index&15]
	}
}

// interpolate blends two expanded endpoint channels with a 6-bit weight.
func interpolate(e0, e1 uint8, w uint32) uint8 {
	return uint8(((64-w)*uint32(e0) + w*uint32(e1) + 32) >> 6)
}

// expandBits widens an n-bit value to 8 bits by replicating its high bits
// into the vacated low bits, so 0 maps to 0 and the maximum maps to 255.
func expandBits(v uint8, n int) uint8 {
	if n >= 8 {
		return v
	}
	v <<= uint(8 - n)
	return v | v>>uint(n)
}
