package tracer

import _ "embed"

// KernelSource is the raytracing compute program. The engine treats it as an
// opaque compilation unit with entry point "main"; its bind group layout is
// declared in the pipeline factory and must stay in sync.
//
//go:embed assets/raytracer_kernel.wgsl
var KernelSource string

// ScreenSource is the full-screen blit program with entry points "vert_main"
// and "frag_main". It synthesizes a 6-vertex quad from the vertex index, so no
// vertex buffers are bound.
//
//go:embed assets/screen_shader.wgsl
var ScreenSource string
