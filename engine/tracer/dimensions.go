package tracer

import "github.com/cogentcore/webgpu/wgpu"

// bytesPerTexel is the size of one RGBA16Float texel (4 × 16-bit float).
const bytesPerTexel = 8

// BufferDimensions describes the row-padded layout of the accumulation buffer
// for a given output resolution. Texture-to-buffer copies require each row to
// start at a wgpu.CopyBytesPerRowAlignment (256) boundary, so rows carry
// trailing padding whenever 8×width is not already aligned.
type BufferDimensions struct {
	Width               uint32
	Height              uint32
	UnpaddedBytesPerRow uint32
	PaddedBytesPerRow   uint32
}

// NewBufferDimensions computes the padded row layout for a width×height
// RGBA16Float image.
//
// Parameters:
//   - width: image width in texels
//   - height: image height in texels
//
// Returns:
//   - BufferDimensions: the computed layout
func NewBufferDimensions(width, height uint32) BufferDimensions {
	unpadded := width * bytesPerTexel
	align := uint32(wgpu.CopyBytesPerRowAlignment)
	padded := (unpadded + align - 1) / align * align
	return BufferDimensions{
		Width:               width,
		Height:              height,
		UnpaddedBytesPerRow: unpadded,
		PaddedBytesPerRow:   padded,
	}
}

// BufferSize returns the total accumulation buffer size in bytes.
//
// Returns:
//   - uint64: PaddedBytesPerRow × Height
func (d BufferDimensions) BufferSize() uint64 {
	return uint64(d.PaddedBytesPerRow) * uint64(d.Height)
}
