package bc7

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"slices"

	"github.com/pierrec/lz4/v4"
	"github.com/woozymasta/bcn"
)

const (
	// BodyMagicCOPY marks an uncompressed EDDS mip body.
	BodyMagicCOPY = "COPY"
	// BodyMagicLZ4 marks an LZ4 chunk-stream EDDS mip body.
	BodyMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	chunkLastFlag   = 0x80
	maxChunkPayload = 0x7FFFFF
	minCompressSize = 1024
)

// WriteOptions configures EDDS writing.
type WriteOptions struct {
	// Compress stores mip bodies as LZ4 chunk streams when that saves space.
	Compress bool
}

// mipBody is one EDDS mip body as stored on disk.
type mipBody struct {
	magic   string
	rawSize int32 // LZ4 only
	data    []byte
}

// size is the body length recorded in the block table.
func (b *mipBody) size() (int32, error) {
	if b.magic == BodyMagicLZ4 {
		return i32FromInt(4 + len(b.data))
	}

	return i32FromInt(len(b.data))
}

type tableEntry struct {
	magic string
	size  int32
}

// ReadEDDS reads a BC7 EDDS stream and decodes its largest mip level.
func ReadEDDS(r io.ReadSeeker, opts *ReadOptions) (*image.NRGBA, error) {
	header, _, err := readHeaders(r)
	if err != nil {
		return nil, err
	}

	return decodeLargestBody(r, header, opts)
}

// decodeLargestBody walks the block table (smallest level first), skips the
// small bodies and decodes the level 0 body.
func decodeLargestBody(r io.ReadSeeker, header *bcn.DDSHeader, opts *ReadOptions) (*image.NRGBA, error) {
	count := headerMipMapCount(header)
	table, err := readBlockTable(r, count)
	if err != nil {
		return nil, err
	}

	last := len(table) - 1
	for i := 0; i < last; i++ {
		if _, err := r.Seek(int64(table[i].size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrSkipBlockBody, i, err)
		}
	}

	width, height := int(header.Width), int(header.Height)
	expected, err := RequiredInputSize(width, height)
	if err != nil {
		return nil, err
	}

	raw, err := readExactly(r, int(table[last].size))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, table[last].magic, err)
	}

	data, err := inflateBody(table[last].magic, raw, expected)
	if err != nil {
		return nil, err
	}

	return DecodeImageWithOptions(data, width, height, opts.decodeOptions())
}

// WriteEDDS writes pre-encoded BC7 mip payloads as an EDDS stream.
// The mipmaps slice must be ordered from largest to smallest.
func WriteEDDS(w io.Writer, width, height int, mipmaps [][]byte, opts *WriteOptions) error {
	header, err := containerHeader(width, height, mipmaps, true)
	if err != nil {
		return err
	}

	compress := opts != nil && opts.Compress
	bodies := make([]*mipBody, len(mipmaps))
	for i, mip := range mipmaps {
		if !compress {
			bodies[i] = &mipBody{magic: BodyMagicCOPY, data: mip}
			continue
		}
		body, err := deflateBody(mip)
		if err != nil {
			return fmt.Errorf("mipmap %d: %w", i, err)
		}
		bodies[i] = body
	}

	if err := writeHeaders(w, header); err != nil {
		return err
	}

	// Table and bodies run from the smallest level to the largest.
	for i := len(bodies) - 1; i >= 0; i-- {
		size, err := bodies[i].size()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, bodies[i].magic); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockTable, i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, size); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockTable, i, err)
		}
	}

	for i := len(bodies) - 1; i >= 0; i-- {
		if err := writeBody(w, bodies[i]); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}

	return nil
}

func writeBody(w io.Writer, body *mipBody) error {
	if body.magic == BodyMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, body.rawSize); err != nil {
			return err
		}
	}
	_, err := w.Write(body.data)
	return err
}

func readBlockTable(r io.Reader, count uint32) ([]tableEntry, error) {
	entries := make([]tableEntry, 0, min(count, 32))
	for i := uint32(0); i < count; i++ {
		var magic [4]byte
		if _, err := io.ReadFull(r, magic[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableMagicRead, i, err)
		}

		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableSizeRead, i, err)
		}

		m := string(magic[:])
		if m != BodyMagicCOPY && m != BodyMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, m)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		entries = append(entries, tableEntry{magic: m, size: size})
	}

	return entries, nil
}

// deflateBody compresses a mip payload into an LZ4 chunk stream, or keeps it
// as COPY when compression does not save at least 15%.
func deflateBody(data []byte) (*mipBody, error) {
	rawSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	copyBody := &mipBody{magic: BodyMagicCOPY, data: data}
	if len(data) < minCompressSize {
		return copyBody, nil
	}

	var stream bytes.Buffer
	buf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, buf, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*0.85 {
			return copyBody, nil
		}
		if n > maxChunkPayload {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		flags := byte(0)
		if end == len(data) {
			flags = chunkLastFlag
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(buf[:n])
	}

	if float64(4+stream.Len()) > float64(len(data))*0.85 {
		return copyBody, nil
	}

	return &mipBody{magic: BodyMagicLZ4, rawSize: rawSize, data: stream.Bytes()}, nil
}

// inflateBody turns a raw table body into the BC7 block stream of expected size.
func inflateBody(magic string, raw []byte, expected int) ([]byte, error) {
	switch magic {
	case BodyMagicCOPY:
		if len(raw) != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expected, len(raw))
		}
		return raw, nil
	case BodyMagicLZ4:
		if len(raw) < 4 {
			return nil, fmt.Errorf("%w: missing uncompressed size", ErrChunkStreamTruncated)
		}
		size := int(int32(binary.LittleEndian.Uint32(raw[:4]))) // #nosec G115 -- negative sizes rejected below.
		if size < 0 {
			return nil, fmt.Errorf("%w: negative uncompressed size %d", ErrDecodedSizeMismatch, size)
		}
		if size != expected {
			return nil, fmt.Errorf("%w: expected %d, header says %d", ErrDecodedSizeMismatch, expected, size)
		}
		return decodeChunkStream(raw[4:], size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, magic)
	}
}

// decodeChunkStream inflates Enfusion LZ4 chunks that share a rolling 64 KiB dictionary.
func decodeChunkStream(data []byte, targetSize int) ([]byte, error) {
	const dictCap = 64 * 1024
	dict := make([]byte, 0, dictCap)
	// targetSize comes from the file; grow per chunk instead of preallocating.
	target := make([]byte, 0, min(targetSize, ChunkSize))
	pos := 0

	for {
		if len(data)-pos < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, len(data)-pos)
		}

		hdr := data[pos : pos+4]
		pos += 4
		cSize := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if (flags &^ chunkLastFlag) != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > len(data)-pos {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, len(data)-pos)
		}
		compressed := data[pos : pos+cSize]
		pos += cSize

		outIdx := len(target)
		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		want := min(ChunkSize, remaining)
		target = slices.Grow(target, want)
		dst := target[outIdx : outIdx+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		target = target[:outIdx+n]

		dict = slideDict(dict, target[outIdx:], dictCap)

		if (flags & chunkLastFlag) != 0 {
			break
		}
	}

	if len(target) != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, len(target))
	}
	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, len(data)-pos)
	}

	return target, nil
}

// slideDict appends decoded bytes to dict, keeping only the last limit bytes.
func slideDict(dict, decoded []byte, limit int) []byte {
	if len(decoded) >= limit {
		return append(dict[:0], decoded[len(decoded)-limit:]...)
	}
	if over := len(dict) + len(decoded) - limit; over > 0 {
		dict = append(dict[:0], dict[over:]...)
	}

	return append(dict, decoded...)
}
