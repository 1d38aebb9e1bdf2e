package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/profiler"
	"github.com/Carmen-Shannon/lumen-go/engine/renderer"
	"github.com/Carmen-Shannon/lumen-go/engine/tracer"
	"github.com/Carmen-Shannon/lumen-go/engine/window"
)

// viewMargin is the panel border, in pixels, kept around the render view on
// every side. The traced image is fitted into what remains.
const viewMargin = 10

func main() {
	width := flag.Int("width", 1200, "initial window width in pixels")
	height := flag.Int("height", 800, "initial window height in pixels")
	title := flag.String("title", "Lumen", "window title")
	vsync := flag.Bool("vsync", true, "synchronize presentation with the display refresh rate")
	software := flag.Bool("software", false, "force a software fallback adapter")
	exportDir := flag.String("export-dir", ".", "directory PNG exports are written to")
	verbose := flag.Bool("verbose", false, "enable tracer debug logging")
	flag.Parse()

	if *verbose {
		tracer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	win := window.NewWindow(
		window.WithTitle(*title),
		window.WithWidth(*width),
		window.WithHeight(*height),
	)

	rendererOptions := []renderer.RendererBuilderOption{}
	if !*vsync {
		rendererOptions = append(rendererOptions, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	if *software {
		rendererOptions = append(rendererOptions, renderer.WithForceSoftwareRenderer(true))
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions...)
	if err != nil {
		log.Fatalf("failed to create renderer: %v", err)
	}

	factory := tracer.NewPipelineFactory(r)
	if err := factory.RegisterPipelines(); err != nil {
		log.Fatalf("failed to register pipelines: %v", err)
	}

	slot := &tracer.ResourceSlot{}
	uploader := tracer.NewSceneUploader(r.Queue(), tracer.DefaultScene())
	orchestrator := tracer.NewFrameOrchestrator(r, factory, slot, uploader,
		tracer.WithAspectRatio(1.5),
	)
	exporter := tracer.NewExporter(r.Device(), r.Queue(), slot)

	// Exports run off the render thread so a readback never stalls a frame.
	// The exporter itself serializes against bundle retirement.
	exportPool := worker.NewDynamicWorkerPool(1, 8, 1*time.Second)
	exportID := 0

	win.SetResizeCallback(func(w, h int) {
		r.Resize(w, h)
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode != common.KeyE {
			return
		}
		path := filepath.Join(*exportDir, "lumen_"+time.Now().Format("20060102_150405")+".png")
		exportID++
		exportPool.SubmitTask(worker.Task{
			ID: exportID,
			Do: func() (any, error) {
				if err := exporter.Export(path); err != nil {
					log.Printf("export failed: %v", err)
					return nil, err
				}
				log.Printf("exported %s", path)
				return nil, nil
			},
		})
	})

	prof := profiler.NewProfiler()
	win.SetUpdateCallback(func() {
		availWidth := float32(win.Width()) - 2*viewMargin
		availHeight := float32(win.Height()) - 2*viewMargin
		if err := orchestrator.RenderFrame(viewMargin, viewMargin, availWidth, availHeight); err != nil {
			log.Printf("frame failed: %v", err)
		}
		prof.Tick()
	})

	win.ProcessMessages()
	if err := win.Close(); err != nil {
		log.Printf("failed to close window: %v", err)
	}
}
