package bc7

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

// DXGI formats that carry BC7 blocks.
const (
	DXGIFormatBC7Typeless  = 97
	DXGIFormatBC7UNorm     = 98
	DXGIFormatBC7UNormSRGB = 99
)

const (
	dx10Texture2D     = 3
	dx10DefaultArrays = 1
)

// isBC7 reports whether the DDS headers describe BC7 block data.
func isBC7(dx10 *bcn.DDSHeaderDX10) bool {
	if dx10 == nil {
		return false
	}

	switch dx10.DXGIFormat {
	case DXGIFormatBC7Typeless, DXGIFormatBC7UNorm, DXGIFormatBC7UNormSRGB:
		return true
	default:
		return false
	}
}

// describeFormat names the payload format for error messages.
func describeFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) string {
	if dx10 != nil {
		return fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		return fmt.Sprintf("FourCC %q", intToFourCC(pf.FourCC))
	}

	return fmt.Sprintf("%d-bit uncompressed", pf.RGBBitCount)
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func enfusionReserved1() [11]uint32 {
	return [11]uint32{
		0,
		0x31464e45, // "ENF1"
		0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

// makeDDSHeader builds a DX10-extended header for a BC7 texture.
func makeDDSHeader(width, height, mipMapCount, linearSize uint32, enfusion bool) *bcn.DDSHeader {
	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize)
	caps := uint32(bcn.DDSCapsTexture)
	if mipMapCount > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:              bcn.DDSHeaderSize,
		Flags:             flags,
		Height:            height,
		Width:             width,
		PitchOrLinearSize: linearSize,
		Depth:             1,
		MipMapCount:       mipMapCount,
		Caps:              caps,
	}
	if enfusion {
		hdr.Reserved1 = enfusionReserved1()
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = bcn.DDSFourCCDX10

	return hdr
}

// writeHeaders writes the DDS magic, header and BC7 DX10 extension.
func writeHeaders(w io.Writer, header *bcn.DDSHeader) error {
	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}

	ext := bcn.DDSHeaderDX10{
		DXGIFormat:        DXGIFormatBC7UNorm,
		ResourceDimension: dx10Texture2D,
		ArraySize:         dx10DefaultArrays,
	}
	if err := binary.Write(w, binary.LittleEndian, &ext); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDX10Header, err)
	}

	return nil
}

// readHeaders reads the DDS headers and rejects anything that is not BC7.
func readHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	if !isBC7(dx10) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, describeFormat(header, dx10))
	}

	return header, dx10, nil
}

// headerMipMapCount returns the number of stored mip levels.
func headerMipMapCount(header *bcn.DDSHeader) uint32 {
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		return header.MipMapCount
	}

	return 1
}
