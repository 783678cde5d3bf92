package bc7

import (
	"image/color"
	"math/rand/v2"
	"testing"
)

// bitWriter packs fields into a block least-significant bit first.
type bitWriter struct {
	block Block
	pos   int
}

func (w *bitWriter) write(v uint32, n int) {
	for i := 0; i < n; i++ {
		if (v>>uint(i))&1 != 0 {
			w.block[w.pos/8] |= 1 << uint(w.pos%8)
		}
		w.pos++
	}
}

// blockFields is a block before packing. colors hold raw endpoint bits
// (without p-bits); for shared p-bits only pbits[s][0] is used.
type blockFields struct {
	mode         int
	partition    int
	rotation     int
	selector     int
	colors       [maxSubsets][2][4]uint8
	pbits        [maxSubsets][2]uint8
	indices      [PixelsPerBlock]uint8
	alphaIndices [PixelsPerBlock]uint8
}

func packBlock(t testing.TB, f blockFields) *Block {
	t.Helper()

	m := modes[f.mode]
	var w bitWriter
	w.write(1<<uint(f.mode), f.mode+1)
	w.write(uint32(f.partition), m.partitionBits)
	w.write(uint32(f.rotation), m.rotationBits)
	w.write(uint32(f.selector), m.selectorBits)

	for c := 0; c < 3; c++ {
		for s := 0; s < m.subsets; s++ {
			w.write(uint32(f.colors[s][0][c]), m.colorBits)
			w.write(uint32(f.colors[s][1][c]), m.colorBits)
		}
	}
	for s := 0; s < m.subsets && m.alphaBits > 0; s++ {
		w.write(uint32(f.colors[s][0][3]), m.alphaBits)
		w.write(uint32(f.colors[s][1][3]), m.alphaBits)
	}

	switch {
	case m.endpointPBits:
		for s := 0; s < m.subsets; s++ {
			w.write(uint32(f.pbits[s][0]), 1)
			w.write(uint32(f.pbits[s][1]), 1)
		}
	case m.sharedPBits:
		for s := 0; s < m.subsets; s++ {
			w.write(uint32(f.pbits[s][0]), 1)
		}
	}

	for i, idx := range f.indices {
		n := m.indexBits
		if isAnchor(m.subsets, uint8(f.partition), i) {
			n--
		}
		w.write(uint32(idx), n)
	}
	if m.alphaIndexBits > 0 {
		for i, idx := range f.alphaIndices {
			n := m.alphaIndexBits
			if i == 0 {
				n--
			}
			w.write(uint32(idx), n)
		}
	}

	if w.pos != BlockSize*8 {
		t.Fatalf("mode %d layout packs %d bits, want 128", f.mode, w.pos)
	}

	return &w.block
}

// expectedEndpoint expands a raw endpoint the way the decoder must.
func expectedEndpoint(m modeInfo, raw [4]uint8, p uint8) color.NRGBA {
	cb, ab := m.colorBits, m.alphaBits
	if m.endpointPBits || m.sharedPBits {
		for c := 0; c < 3; c++ {
			raw[c] = raw[c]<<1 | p
		}
		cb++
		if ab > 0 {
			raw[3] = raw[3]<<1 | p
			ab++
		}
	}

	out := color.NRGBA{
		R: expandBits(raw[0], cb),
		G: expandBits(raw[1], cb),
		B: expandBits(raw[2], cb),
		A: 0xff,
	}
	if ab > 0 {
		out.A = expandBits(raw[3], ab)
	}

	return out
}

func TestBlockMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first byte
		want  int
	}{
		{first: 0x00, want: -1},
		{first: 0x01, want: 0},
		{first: 0xff, want: 0},
		{first: 0x02, want: 1},
		{first: 0x0c, want: 2},
		{first: 0x40, want: 6},
		{first: 0x80, want: 7},
	}

	for _, tc := range tests {
		b := Block{tc.first}
		if got := BlockMode(&b); got != tc.want {
			t.Errorf("BlockMode(0x%02x) = %d, want %d", tc.first, got, tc.want)
		}
	}
}

func TestDecodeBlockMalformedIsTransparentBlack(t *testing.T) {
	t.Parallel()

	b := Block{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	for i, px := range DecodeBlock(&b) {
		if px != (color.NRGBA{}) {
			t.Fatalf("pixel %d = %v, want transparent black", i, px)
		}
	}
}

func TestDecodeBlockMode6Constant(t *testing.T) {
	t.Parallel()

	// 7-bit endpoints with p-bit 0 expand to exactly twice the raw value.
	raw := [4]uint8{5, 10, 15, 20}
	var f blockFields
	f.mode = 6
	f.colors[0] = [2][4]uint8{raw, raw}
	for i := range f.indices {
		f.indices[i] = uint8(i) & 7
	}

	want := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	for i, px := range DecodeBlock(packBlock(t, f)) {
		if px != want {
			t.Fatalf("pixel %d = %v, want %v", i, px, want)
		}
	}
}

func TestDecodeBlockMode6Ramp(t *testing.T) {
	t.Parallel()

	var f blockFields
	f.mode = 6
	f.colors[0][1] = [4]uint8{127, 127, 127, 127}
	f.pbits[0] = [2]uint8{0, 1}
	for i := range f.indices {
		f.indices[i] = uint8(i)
	}

	want := [PixelsPerBlock]uint8{0, 16, 36, 52, 68, 84, 104, 120, 135, 151, 171, 187, 203, 219, 239, 255}
	for i, px := range DecodeBlock(packBlock(t, f)) {
		w := want[i]
		if px != (color.NRGBA{R: w, G: w, B: w, A: w}) {
			t.Fatalf("pixel %d = %v, want all channels %d", i, px, w)
		}
	}
}

func TestDecodeBlockPureRed(t *testing.T) {
	t.Parallel()

	// Only modes without p-bits can represent exact zero next to 255.
	for _, mode := range []int{2, 4, 5} {
		m := modes[mode]
		var f blockFields
		f.mode = mode
		red := [4]uint8{uint8(1<<m.colorBits - 1), 0, 0, uint8(1<<m.alphaBits - 1)}
		for s := 0; s < m.subsets; s++ {
			f.colors[s] = [2][4]uint8{red, red}
		}
		for i := range f.indices {
			f.indices[i] = 1
			f.alphaIndices[i] = 1
		}

		want := color.NRGBA{R: 255, A: 255}
		for i, px := range DecodeBlock(packBlock(t, f)) {
			if px != want {
				t.Fatalf("mode %d pixel %d = %v, want %v", mode, i, px, want)
			}
		}
	}
}

func TestDecodeBlockDegenerateEndpoints(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))

	for mode := 0; mode < numModes; mode++ {
		m := modes[mode]
		for trial := 0; trial < 64; trial++ {
			var f blockFields
			f.mode = mode
			f.partition = rng.IntN(1 << m.partitionBits)

			var want [maxSubsets]color.NRGBA
			for s := 0; s < m.subsets; s++ {
				var raw [4]uint8
				for c := 0; c < 3; c++ {
					raw[c] = uint8(rng.IntN(1 << m.colorBits))
				}
				if m.alphaBits > 0 {
					raw[3] = uint8(rng.IntN(1 << m.alphaBits))
				}
				p := uint8(rng.IntN(2))
				f.colors[s] = [2][4]uint8{raw, raw}
				f.pbits[s] = [2]uint8{p, p}
				want[s] = expectedEndpoint(m, raw, p)
			}

			for i := range f.indices {
				n := m.indexBits
				if isAnchor(m.subsets, uint8(f.partition), i) {
					n--
				}
				f.indices[i] = uint8(rng.IntN(1 << n))
				if m.alphaIndexBits > 0 {
					n = m.alphaIndexBits
					if i == 0 {
						n--
					}
					f.alphaIndices[i] = uint8(rng.IntN(1 << n))
				}
			}

			got := DecodeBlock(packBlock(t, f))
			for i, px := range got {
				s := subsetOf(m.subsets, uint8(f.partition), i)
				if px != want[s] {
					t.Fatalf("mode %d partition %d pixel %d (subset %d) = %v, want %v",
						mode, f.partition, i, s, px, want[s])
				}
			}
		}
	}
}

func TestDecodeBlockRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rotation int
		want     color.NRGBA
	}{
		{rotation: 0, want: color.NRGBA{R: 255, G: 0, B: 129, A: 17}},
		{rotation: 1, want: color.NRGBA{R: 17, G: 0, B: 129, A: 255}},
		{rotation: 2, want: color.NRGBA{R: 255, G: 17, B: 129, A: 0}},
		{rotation: 3, want: color.NRGBA{R: 255, G: 0, B: 17, A: 129}},
	}

	for _, tc := range tests {
		var f blockFields
		f.mode = 5
		f.rotation = tc.rotation
		ep := [4]uint8{127, 0, 64, 17}
		f.colors[0] = [2][4]uint8{ep, ep}

		for i, px := range DecodeBlock(packBlock(t, f)) {
			if px != tc.want {
				t.Fatalf("rotation %d pixel %d = %v, want %v", tc.rotation, i, px, tc.want)
			}
		}
	}
}

func TestDecodeBlockMode4IndexSelector(t *testing.T) {
	t.Parallel()

	// Weight 21 (2-bit index 1) gives 84, weight 18 (3-bit index 2) gives 72.
	tests := []struct {
		selector     int
		color, alpha uint8
	}{
		{selector: 0, color: 84, alpha: 72},
		{selector: 1, color: 72, alpha: 84},
	}

	for _, tc := range tests {
		var f blockFields
		f.mode = 4
		f.selector = tc.selector
		f.colors[0][1] = [4]uint8{31, 31, 31, 63}
		for i := range f.indices {
			f.indices[i] = 1
			f.alphaIndices[i] = 2
		}

		want := color.NRGBA{R: tc.color, G: tc.color, B: tc.color, A: tc.alpha}
		for i, px := range DecodeBlock(packBlock(t, f)) {
			if px != want {
				t.Fatalf("selector %d pixel %d = %v, want %v", tc.selector, i, px, want)
			}
		}
	}
}

func TestDecodeBlockNoAlphaModesAreOpaque(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	for _, mode := range []int{0, 1, 2, 3} {
		for trial := 0; trial < 32; trial++ {
			var b Block
			for i := range b {
				b[i] = byte(rng.Uint32())
			}
			b[0] = b[0]&^byte(1<<uint(mode+1)-1) | byte(1<<uint(mode))

			for i, px := range DecodeBlock(&b) {
				if px.A != 0xff {
					t.Fatalf("mode %d pixel %d alpha = %d, want 255", mode, i, px.A)
				}
			}
		}
	}
}

func TestDecodeBlockDeterministic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 512; trial++ {
		var b Block
		for i := range b {
			b[i] = byte(rng.Uint32())
		}

		first := DecodeBlock(&b)
		if second := DecodeBlock(&b); first != second {
			t.Fatalf("block %x decoded differently on second call", b)
		}
	}
}

func TestExpandBits(t *testing.T) {
	t.Parallel()

	for n := 4; n <= 8; n++ {
		if got := expandBits(0, n); got != 0 {
			t.Errorf("expandBits(0, %d) = %d, want 0", n, got)
		}
		if got := expandBits(uint8(1<<n-1), n); got != 255 {
			t.Errorf("expandBits(max, %d) = %d, want 255", n, got)
		}
	}

	if got := expandBits(63, 6); got != 255 {
		t.Fatalf("expandBits(63, 6) = %d, want 255", got)
	}
	if got := expandBits(0x10, 5); got != 0x84 {
		t.Fatalf("expandBits(0x10, 5) = 0x%02x, want 0x84", got)
	}
}

func TestPartitionAnchorsBelongToSubset(t *testing.T) {
	t.Parallel()

	for p := 0; p < 64; p++ {
		if partitions2[p][0] != 0 || partitions2[p][anchors2[p]] != 1 {
			t.Errorf("two-subset shape %d: bad anchors", p)
		}
		if partitions3[p][0] != 0 || partitions3[p][anchors3Second[p]] != 1 || partitions3[p][anchors3Third[p]] != 2 {
			t.Errorf("three-subset shape %d: bad anchors", p)
		}
	}
}

// rgba is shorthand for known-answer pixel tables.
func rgba(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func TestDecodeBlockKnownAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block Block
		want  [PixelsPerBlock]color.NRGBA
	}{
		{
			// E0 (127,0,0,127) p1, E1 (0,0,0,127) p0, index 0 then fifteen 15s.
			name: "mode6",
			block: Block{
				0xc0, 0x3f, 0x00, 0x00, 0x00, 0x00, 0xfe, 0xff,
				0xf0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			},
			want: [PixelsPerBlock]color.NRGBA{
				rgba(255, 1, 1, 255), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254),
				rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254),
				rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254),
				rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254), rgba(0, 0, 0, 254),
			},
		},
		{
			// Partition 17 puts pixels 1, 2, 3 and 7 in subset 1, anchored at pixel 2.
			name: "mode7-partition17",
			block: Block{
				0x80, 0xd1, 0x07, 0x00, 0x82, 0x0f, 0x20, 0x00,
				0x1f, 0xfe, 0xff, 0x7e, 0xef, 0xe4, 0xe4, 0xe4,
			},
			want: [PixelsPerBlock]color.NRGBA{
				rgba(171, 85, 3, 254), rgba(47, 47, 215, 168), rgba(47, 47, 215, 168), rgba(134, 134, 134, 255),
				rgba(255, 4, 4, 255), rgba(171, 85, 3, 254), rgba(84, 170, 1, 252), rgba(134, 134, 134, 255),
				rgba(255, 4, 4, 255), rgba(171, 85, 3, 254), rgba(84, 170, 1, 252), rgba(0, 251, 0, 251),
				rgba(255, 4, 4, 255), rgba(171, 85, 3, 254), rgba(84, 170, 1, 252), rgba(0, 251, 0, 251),
			},
		},
		{
			// Three subsets anchored at pixels 0, 3 and 15.
			name: "mode2-partition0",
			block: Block{
				0x04, 0x3e, 0x00, 0x00, 0x7c, 0x00, 0x3e, 0x00,
				0x1f, 0x00, 0x00, 0xfe, 0xb7, 0xd9, 0xd8, 0xd8,
			},
			want: [PixelsPerBlock]color.NRGBA{
				rgba(255, 0, 0, 255), rgba(0, 0, 0, 255), rgba(0, 84, 0, 255), rgba(0, 171, 0, 255),
				rgba(255, 0, 0, 255), rgba(0, 0, 0, 255), rgba(0, 84, 0, 255), rgba(0, 171, 0, 255),
				rgba(255, 0, 0, 255), rgba(255, 255, 255, 255), rgba(171, 171, 255, 255), rgba(0, 171, 0, 255),
				rgba(0, 0, 255, 255), rgba(255, 255, 255, 255), rgba(171, 171, 255, 255), rgba(84, 84, 255, 255),
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeBlock(&tc.block)
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("pixel %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
