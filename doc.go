/*
Package bc7 decodes BC7 (BPTC) compressed textures into RGBA8 pixels.

A BC7 texture is a headerless stream of 16-byte blocks, each covering 4x4
pixels, laid out row-major over a ceil(width/4) x ceil(height/4) grid. Every
block selects one of eight modes that trade color precision, alpha support
and the number of partition subsets. DecodeBlock decodes a single block and
DecodeTexture scatters a whole stream into a caller-owned RGBA8 buffer,
clipping partial edge blocks.

Blocks with no mode bit set are not errors: they decode to transparent black
so one corrupt block does not spoil the rest of a texture.

The package also reads BC7 payloads out of DDS (DX10) and Enfusion EDDS
containers, with LZ4 chunk-stream and zstd compressed payloads. The writers
store BC7 payloads that were compressed elsewhere; the package has no
encoder.
*/
package bc7
