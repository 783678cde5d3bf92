package bc7

import "errors"

var (
	// ErrInputTooShort indicates the compressed stream is smaller than the block grid.
	ErrInputTooShort = errors.New("compressed input too short")
	// ErrOutputTooShort indicates the RGBA8 output buffer is smaller than width*height*4.
	ErrOutputTooShort = errors.New("output buffer too short")
	// ErrInvalidDimensions indicates negative texture dimensions.
	ErrInvalidDimensions = errors.New("invalid dimensions")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupportedFormat indicates a container that does not hold BC7 data.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrOpenFile indicates the input file could not be opened.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates the output file could not be created.
	ErrCreateFile = errors.New("create file failed")
	// ErrDDSHeaderRead indicates a missing or short DDS magic and header.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates a short DX10 extension header.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrPayloadRead indicates reading the BC7 block stream failed.
	ErrPayloadRead = errors.New("reading block stream failed")
	// ErrWriteDDSMagic indicates DDS magic write failed.
	ErrWriteDDSMagic = errors.New("writing DDS magic failed")
	// ErrWriteDDSHeader indicates DDS header write failed.
	ErrWriteDDSHeader = errors.New("writing DDS header failed")
	// ErrWriteDX10Header indicates DDS DX10 header write failed.
	ErrWriteDX10Header = errors.New("writing DDS DX10 header failed")
	// ErrWritePayload indicates writing a mipmap payload failed.
	ErrWritePayload = errors.New("writing payload failed")
	// ErrPeekContainer indicates reading past the headers to detect EDDS failed.
	ErrPeekContainer = errors.New("detecting container layout failed")

	// ErrBlockTableMagicRead indicates a truncated mip table entry magic.
	ErrBlockTableMagicRead = errors.New("reading block table magic failed")
	// ErrBlockTableSizeRead indicates a truncated mip table entry size.
	ErrBlockTableSizeRead = errors.New("reading block table size failed")
	// ErrBlockTableUnknownMagic indicates a mip table entry that is neither COPY nor LZ4.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates a negative mip table entry size.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates the level 0 mip body could not be read.
	ErrBlockBodyRead = errors.New("reading mip body failed")
	// ErrSkipBlockBody indicates seeking past a smaller mip body failed.
	ErrSkipBlockBody = errors.New("skipping mip body failed")
	// ErrUnknownBlockMagic indicates a body magic the inflater does not handle.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrCopySizeMismatch indicates a COPY body that is not exactly one BC7 block grid.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrWriteBlockTable indicates writing a mip table entry failed.
	ErrWriteBlockTable = errors.New("writing block table failed")
	// ErrWriteBlockData indicates writing a mip body failed.
	ErrWriteBlockData = errors.New("writing mip body failed")

	// ErrChunkStreamTruncated indicates an LZ4 body ends inside a size or chunk header.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates chunk flags other than the last-chunk bit.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates a chunk length that is zero or runs past the body.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrChunkTooLarge indicates a compressed chunk that does not fit the 24-bit length.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrDecodeOverrun indicates chunks left after the block grid is full.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates an LZ4 body that does not inflate to one block grid.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates bytes after the last chunk.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")

	// ErrZstdDecode indicates the zstd stream could not be inflated.
	ErrZstdDecode = errors.New("zstd decode failed")
)
