package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"
)

// Vertex is one interleaved vertex record: position then color.
type Vertex struct {
	Position f32.Vec3
	Color    f32.Vec3
}

// VertexStride is the byte size of one encoded Vertex (6 float32).
const VertexStride = 24

// Attribute offsets inside a vertex record.
const (
	positionOffset = 0
	colorOffset    = 12
)

// QuadVertices are the four corners of the quad: red, green, blue and yellow,
// counter-clockwise from bottom-left.
var QuadVertices = []Vertex{
	{Position: f32.Vec3{-0.5, -0.5, 0}, Color: f32.Vec3{1, 0, 0}},
	{Position: f32.Vec3{0.5, -0.5, 0}, Color: f32.Vec3{0, 1, 0}},
	{Position: f32.Vec3{0.5, 0.5, 0}, Color: f32.Vec3{0, 0, 1}},
	{Position: f32.Vec3{-0.5, 0.5, 0}, Color: f32.Vec3{1, 1, 0}},
}

// QuadIndices describe two triangles over QuadVertices.
var QuadIndices = []uint16{
	0, 1, 2,
	0, 2, 3,
}

// VertexLayout returns the single vertex buffer layout matching Vertex:
// location 0 is position (float32x3 at 0), location 1 is color
// (float32x3 at 12).
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: positionOffset, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: colorOffset, ShaderLocation: 1},    // color
			},
		},
	}
}

// EncodeVertices serializes vertices as little-endian float32 records.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		writeVertex(buf[i*VertexStride:], v)
	}
	return buf
}

func writeVertex(buf []byte, v Vertex) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Color[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.Color[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Color[2]))
}

// EncodeIndices serializes indices as little-endian uint16 values.
func EncodeIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// Geometry owns the vertex and index buffers of one static mesh.
// Both buffers are written once by NewGeometry and never updated.
type Geometry struct {
	device hal.Device

	vertexBuf  hal.Buffer
	indexBuf   hal.Buffer
	vertexSize uint64
	indexSize  uint64

	vertexCount uint32
	indexCount  uint32
}

// NewQuad uploads QuadVertices and QuadIndices.
func NewQuad(device hal.Device, queue hal.Queue) (*Geometry, error) {
	return NewGeometry(device, queue, QuadVertices, QuadIndices)
}

// NewGeometry allocates a vertex and an index buffer sized exactly to the
// encoded data and fills each with a single queue write.
func NewGeometry(device hal.Device, queue hal.Queue, vertices []Vertex, indices []uint16) (*Geometry, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyGeometry
	}

	g := &Geometry{
		device:      device,
		vertexCount: uint32(len(vertices)),
		indexCount:  uint32(len(indices)),
	}

	vdata := EncodeVertices(vertices)
	vbuf, err := createAndUploadBuffer(device, queue, "gpucam_quad_vertices",
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, vdata)
	if err != nil {
		return nil, err
	}
	g.vertexBuf = vbuf
	g.vertexSize = uint64(len(vdata))

	idata := EncodeIndices(indices)
	ibuf, err := createAndUploadBuffer(device, queue, "gpucam_quad_indices",
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, idata)
	if err != nil {
		g.Destroy()
		return nil, err
	}
	g.indexBuf = ibuf
	g.indexSize = uint64(len(idata))

	slogger().Debug("gpu: geometry uploaded",
		"vertices", g.vertexCount,
		"indices", g.indexCount,
		"vertex_bytes", g.vertexSize,
		"index_bytes", g.indexSize,
	)
	return g, nil
}

// createAndUploadBuffer creates a GPU buffer and writes data into it.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("gpu: write %s: %w", label, err)
	}
	return buf, nil
}

// IndexCount is the number of indices in the index buffer. It is the only
// value frames use as the draw count.
func (g *Geometry) IndexCount() uint32 {
	return g.indexCount
}

// VertexCount is the number of vertices in the vertex buffer.
func (g *Geometry) VertexCount() uint32 {
	return g.vertexCount
}

// bind sets the vertex buffer at slot 0 and the uint16 index buffer.
func (g *Geometry) bind(rp hal.RenderPassEncoder) {
	rp.SetVertexBuffer(0, g.vertexBuf, 0)
	rp.SetIndexBuffer(g.indexBuf, gputypes.IndexFormatUint16, 0)
}

// Destroy releases both buffers.
func (g *Geometry) Destroy() {
	if g.indexBuf != nil {
		g.device.DestroyBuffer(g.indexBuf)
		g.indexBuf = nil
	}
	if g.vertexBuf != nil {
		g.device.DestroyBuffer(g.vertexBuf)
		g.vertexBuf = nil
	}
}
