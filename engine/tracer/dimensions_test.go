package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBufferDimensions(t *testing.T) {
	tests := []struct {
		name       string
		width      uint32
		height     uint32
		wantPadded uint32
	}{
		{"one texel wide", 1, 1, 256},
		{"exactly aligned", 32, 32, 256},
		{"just over alignment", 33, 10, 512},
		{"typical viewport", 800, 533, 6400},
		{"odd width", 641, 480, 5376},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBufferDimensions(tt.width, tt.height)

			assert.Equal(t, tt.width*bytesPerTexel, d.UnpaddedBytesPerRow)
			assert.Equal(t, tt.wantPadded, d.PaddedBytesPerRow)
			assert.Zero(t, d.PaddedBytesPerRow%256, "rows must start on the copy alignment")
			assert.GreaterOrEqual(t, d.PaddedBytesPerRow, d.UnpaddedBytesPerRow)
			assert.Equal(t, uint64(tt.wantPadded)*uint64(tt.height), d.BufferSize())
		})
	}
}
