package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeUncapped presents immediately without waiting for vertical blank.
	PresentModeUncapped PresentMode = iota
	// PresentModeVSync waits for vertical blank.
	PresentModeVSync
)

// ErrFramePending is returned by RenderFrame when the previous surface image is still held.
var ErrFramePending = errors.New("previous frame surface not yet presented")

// Renderer owns the WebGPU device and surface of a window and the camera uniform consumed by
// globe shaders. It implements engine.UniformWriter.
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size.
	// Zero sizes, as reported for minimized windows, are ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// WriteCamera uploads the camera uniform block.
	//
	// Parameters:
	//   - u: the camera uniform block
	WriteCamera(u camera.GPUCameraUniform)

	// CameraUniform returns the camera uniform buffer and its bind group.
	//
	// Returns:
	//   - *CameraUniformBuffer: the camera uniform buffer
	CameraUniform() *CameraUniformBuffer

	// RenderFrame clears the surface and presents it.
	//
	// Returns:
	//   - error: error if the surface image cannot be acquired or recorded
	RenderFrame() error

	// Release frees every GPU object owned by the renderer.
	Release()
}

// renderer implements the Renderer interface on wgpu.
type renderer struct {
	mu     *sync.Mutex
	logger *slog.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        *wgpu.TextureFormat
	configured           bool
	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
	clearColor           wgpu.Color

	cameraUniform *CameraUniformBuffer
}

var _ Renderer = &renderer{}

// NewRenderer creates the WebGPU device for a window surface and configures it.
// Must be called from the goroutine that owns the window.
//
// Parameters:
//   - surfaceDescriptor: the window surface descriptor, see window.Window.SurfaceDescriptor
//   - width: initial framebuffer width in pixels
//   - height: initial framebuffer height in pixels
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
//   - error: error if no adapter or device is available
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("renderer requires a surface descriptor")
	}
	runtime.LockOSThread()

	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      slog.Default(),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0.02, G: 0.03, B: 0.08, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Globe Device",
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	r.device = d
	r.queue = d.GetQueue()

	r.cameraUniform, err = NewCameraUniformBuffer(r.device, r.queue)
	if err != nil {
		r.Release()
		return nil, err
	}

	r.Resize(width, height)
	r.logger.Info("renderer ready", "width", width, "height", height)
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	r.configured = true
}

func (r *renderer) WriteCamera(u camera.GPUCameraUniform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cameraUniform != nil {
		r.cameraUniform.WriteCamera(u)
	}
}

func (r *renderer) CameraUniform() *CameraUniformBuffer {
	return r.cameraUniform
}

func (r *renderer) RenderFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.configured {
		return ErrFramePending
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.clearColor,
			},
		},
	})
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cameraUniform != nil {
		r.cameraUniform.Release()
		r.cameraUniform = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
	r.configured = false
}
