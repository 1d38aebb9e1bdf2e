package tracer

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripRowPadding(t *testing.T) {
	dims := NewBufferDimensions(3, 2)
	require.Equal(t, uint32(24), dims.UnpaddedBytesPerRow)
	require.Equal(t, uint32(256), dims.PaddedBytesPerRow)

	padded := make([]byte, dims.BufferSize())
	for row := uint32(0); row < dims.Height; row++ {
		for i := uint32(0); i < dims.UnpaddedBytesPerRow; i++ {
			padded[row*dims.PaddedBytesPerRow+i] = byte(row*100 + i)
		}
		// Poison the pad region so any leak into the output is visible.
		for i := dims.UnpaddedBytesPerRow; i < dims.PaddedBytesPerRow; i++ {
			padded[row*dims.PaddedBytesPerRow+i] = 0xFF
		}
	}

	pixels := stripRowPadding(padded, dims)
	require.Len(t, pixels, int(dims.UnpaddedBytesPerRow*dims.Height))
	for row := uint32(0); row < dims.Height; row++ {
		for i := uint32(0); i < dims.UnpaddedBytesPerRow; i++ {
			assert.Equal(t, byte(row*100+i), pixels[row*dims.UnpaddedBytesPerRow+i])
		}
	}
}

func TestChannelToByte(t *testing.T) {
	tests := []struct {
		name string
		bits uint16
		want uint8
	}{
		{"zero", 0x0000, 0},
		{"one", 0x3C00, 255},
		{"half", 0x3800, 128},
		{"quarter", 0x3400, 64},
		{"over range clamps", 0x4000, 255},
		{"negative clamps", 0xBC00, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, channelToByte(tt.bits))
		})
	}
}

func TestDecodeRGBA16Float(t *testing.T) {
	// One texel: R=1.0, G=0.5, B=0.0, A=1.0 in half floats.
	pixels := make([]byte, bytesPerTexel)
	binary.LittleEndian.PutUint16(pixels[0:2], 0x3C00)
	binary.LittleEndian.PutUint16(pixels[2:4], 0x3800)
	binary.LittleEndian.PutUint16(pixels[4:6], 0x0000)
	binary.LittleEndian.PutUint16(pixels[6:8], 0x3C00)

	img := decodeRGBA16Float(pixels, 1, 1)

	require.Equal(t, 1, img.Bounds().Dx())
	require.Equal(t, 1, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{R: 255, G: 128, B: 0, A: 255}, img.NRGBAAt(0, 0))
}

func TestDecodeRGBA16FloatDimensions(t *testing.T) {
	dims := NewBufferDimensions(5, 3)
	pixels := make([]byte, dims.UnpaddedBytesPerRow*dims.Height)

	img := decodeRGBA16Float(pixels, dims.Width, dims.Height)

	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(4, 2))
}
