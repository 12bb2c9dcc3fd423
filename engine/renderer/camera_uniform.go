package renderer

import (
	"bytes"
	"fmt"

	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// CameraUniformBinding is the binding index of the camera uniform in its bind group.
const CameraUniformBinding = 0

// CameraUniformBuffer owns the GPU uniform buffer holding camera.GPUCameraUniform and the bind
// group exposing it to vertex shaders declaring camera.GPUCameraUniformSource.
type CameraUniformBuffer struct {
	buffer          *wgpu.Buffer
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup

	write  func(data []byte)
	last   []byte
	writes int
}

// NewCameraUniformBuffer creates the uniform buffer, its bind group layout and bind group.
//
// Parameters:
//   - device: the device to allocate on
//   - queue: the queue uploads are written through
//
// Returns:
//   - *CameraUniformBuffer: the buffer
//   - error: error if any GPU object cannot be created
func NewCameraUniformBuffer(device *wgpu.Device, queue *wgpu.Queue) (*CameraUniformBuffer, error) {
	var u camera.GPUCameraUniform
	size := uint64(u.Size())

	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Camera Uniform Buffer",
		Size:             size,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create camera uniform buffer: %w", err)
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    CameraUniformBinding,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("failed to create camera bind group layout: %w", err)
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: CameraUniformBinding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		layout.Release()
		buf.Release()
		return nil, fmt.Errorf("failed to create camera bind group: %w", err)
	}

	return &CameraUniformBuffer{
		buffer:          buf,
		bindGroupLayout: layout,
		bindGroup:       bindGroup,
		write: func(data []byte) {
			queue.WriteBuffer(buf, 0, data)
		},
	}, nil
}

// WriteCamera uploads u. Uploads identical to the previous one are skipped.
//
// Parameters:
//   - u: the camera uniform block
func (b *CameraUniformBuffer) WriteCamera(u camera.GPUCameraUniform) {
	data := u.Marshal()
	if bytes.Equal(data, b.last) {
		return
	}
	b.write(data)
	b.last = data
	b.writes++
}

// Writes returns the number of uploads issued.
func (b *CameraUniformBuffer) Writes() int {
	return b.writes
}

// Buffer returns the GPU buffer.
func (b *CameraUniformBuffer) Buffer() *wgpu.Buffer {
	return b.buffer
}

// BindGroupLayout returns the layout pipelines use for the camera bind group.
func (b *CameraUniformBuffer) BindGroupLayout() *wgpu.BindGroupLayout {
	return b.bindGroupLayout
}

// BindGroup returns the camera bind group.
func (b *CameraUniformBuffer) BindGroup() *wgpu.BindGroup {
	return b.bindGroup
}

// Release frees the GPU objects. The buffer must not be used afterwards.
func (b *CameraUniformBuffer) Release() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}
