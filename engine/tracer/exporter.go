package tracer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mrjoshuak/go-openexr/half"
)

// exporter is the implementation of the Exporter interface.
type exporter struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue
	slot   *ResourceSlot
}

// Exporter reads the accumulated image back from the GPU and writes it as a
// PNG. Each export copies the accumulation buffer into a fresh MAP_READ
// readback buffer in its own submission, so the frame loop's writes never
// race a mapped buffer. At most one export runs at a time.
type Exporter interface {
	// Export copies the current accumulation buffer to the host, strips the row
	// padding, decodes the RGBA16Float texels, and writes a PNG to path. On any
	// failure no file is written. Blocks until the readback completes.
	//
	// Parameters:
	//   - path: destination file path for the PNG
	//
	// Returns:
	//   - error: an error if no bundle is live, the readback fails, or the file
	//     cannot be written
	Export(path string) error
}

var _ Exporter = &exporter{}

// NewExporter creates an Exporter reading from the given slot's live bundle.
//
// Parameters:
//   - device: the GPU device, used for buffer creation and polling
//   - queue: the GPU queue the copy is submitted on
//   - slot: the slot holding the live bundle
//
// Returns:
//   - Exporter: the exporter
func NewExporter(device *wgpu.Device, queue *wgpu.Queue, slot *ResourceSlot) Exporter {
	return &exporter{
		device: device,
		queue:  queue,
		slot:   slot,
	}
}

func (e *exporter) Export(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Holding the retire lock for the whole export keeps a concurrent resize
	// from releasing the bundle while its accumulation buffer is being copied.
	e.slot.retire.Lock()
	defer e.slot.retire.Unlock()

	bundle := e.slot.Load()
	if bundle == nil {
		return fmt.Errorf("no rendered image to export")
	}
	dims := bundle.dims
	size := dims.BufferSize()

	readback, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Export Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create readback buffer: %w", err)
	}
	defer readback.Release()

	encoder, err := e.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create export encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(bundle.accumBuffer, 0, readback, 0, size)
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("failed to record export copy: %w", err)
	}
	e.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	// The map callback fires from the driver during Poll; a buffered one-shot
	// channel hands the status back to this goroutine.
	done := make(chan wgpu.BufferMapAsyncStatus, 1)
	err = readback.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		done <- status
	})
	if err != nil {
		return fmt.Errorf("failed to map readback buffer: %w", err)
	}

	var status wgpu.BufferMapAsyncStatus
polling:
	for {
		select {
		case status = <-done:
			break polling
		default:
			e.device.Poll(true, nil)
		}
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("readback buffer map failed with status %v", status)
	}

	padded := readback.GetMappedRange(0, uint(size))
	pixels := stripRowPadding(padded, dims)
	readback.Unmap()

	img := decodeRGBA16Float(pixels, dims.Width, dims.Height)

	// Encode fully in memory first so a failure never leaves a partial file.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log().Info("exported image", "path", path, "width", dims.Width, "height", dims.Height)
	return nil
}

// stripRowPadding copies the texel region out of a row-padded buffer,
// dropping the per-row copy-alignment padding.
//
// Parameters:
//   - padded: the raw buffer, PaddedBytesPerRow × Height bytes
//   - dims: the buffer layout
//
// Returns:
//   - []byte: UnpaddedBytesPerRow × Height bytes of tightly packed texels
func stripRowPadding(padded []byte, dims BufferDimensions) []byte {
	out := make([]byte, 0, dims.UnpaddedBytesPerRow*dims.Height)
	for row := uint32(0); row < dims.Height; row++ {
		start := row * dims.PaddedBytesPerRow
		out = append(out, padded[start:start+dims.UnpaddedBytesPerRow]...)
	}
	return out
}

// decodeRGBA16Float converts tightly packed RGBA16Float texels to an 8-bit
// NRGBA image, clamping each channel to [0, 1].
//
// Parameters:
//   - pixels: 8 bytes per texel, row-major
//   - width, height: image dimensions in texels
//
// Returns:
//   - *image.NRGBA: the decoded image
func decodeRGBA16Float(pixels []byte, width, height uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			off := (y*width + x) * bytesPerTexel
			img.SetNRGBA(int(x), int(y), color.NRGBA{
				R: channelToByte(binary.LittleEndian.Uint16(pixels[off : off+2])),
				G: channelToByte(binary.LittleEndian.Uint16(pixels[off+2 : off+4])),
				B: channelToByte(binary.LittleEndian.Uint16(pixels[off+4 : off+6])),
				A: channelToByte(binary.LittleEndian.Uint16(pixels[off+6 : off+8])),
			})
		}
	}
	return img
}

// channelToByte decodes one half-float channel and maps [0, 1] to [0, 255].
func channelToByte(bits uint16) uint8 {
	v := half.Half(bits).Float32()
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
