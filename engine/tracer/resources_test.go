package tracer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestScreenSamplerConfig(t *testing.T) {
	cfg := screenSamplerConfig()

	// The blit must show accumulation texels unfiltered.
	assert.Equal(t, wgpu.FilterModeNearest, cfg.MagFilter)
	assert.Equal(t, wgpu.FilterModeNearest, cfg.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, cfg.MipmapFilter)

	assert.Equal(t, wgpu.AddressModeClampToEdge, cfg.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, cfg.AddressModeV)
	assert.Equal(t, wgpu.AddressModeClampToEdge, cfg.AddressModeW)
}
