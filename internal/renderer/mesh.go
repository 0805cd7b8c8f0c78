package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout: position(3) uv(2) normal(3) tangent(3).
const FloatsPerVertex = 11

const (
	uvOffset      = 3
	normalOffset  = 5
	tangentOffset = 8
)

// Mesh is CPU side geometry, ready to upload.
type Mesh struct {
	Data     []float32
	Indices  []uint32
	Material *Material
}

type Material struct {
	Name          string
	DiffuseColor  mgl32.Vec3
	SpecularColor mgl32.Vec3
	Shininess     float32
	TexturePath   string // map_Kd, resolved against the .mtl location
}

func DefaultMaterial() *Material {
	return &Material{
		Name:          "default",
		DiffuseColor:  mgl32.Vec3{1, 1, 1},
		SpecularColor: mgl32.Vec3{1, 1, 1},
		Shininess:     32,
	}
}

func (m *Mesh) VertexCount() int {
	return len(m.Data) / FloatsPerVertex
}

func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * FloatsPerVertex
	return mgl32.Vec3{m.Data[o], m.Data[o+1], m.Data[o+2]}
}

func (m *Mesh) UV(i int) mgl32.Vec2 {
	o := i*FloatsPerVertex + uvOffset
	return mgl32.Vec2{m.Data[o], m.Data[o+1]}
}

func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i*FloatsPerVertex + normalOffset
	return mgl32.Vec3{m.Data[o], m.Data[o+1], m.Data[o+2]}
}

func (m *Mesh) Tangent(i int) mgl32.Vec3 {
	o := i*FloatsPerVertex + tangentOffset
	return mgl32.Vec3{m.Data[o], m.Data[o+1], m.Data[o+2]}
}

func (m *Mesh) SetNormal(i int, n mgl32.Vec3) {
	copy(m.Data[i*FloatsPerVertex+normalOffset:], n[:])
}

func (m *Mesh) SetTangent(i int, t mgl32.Vec3) {
	copy(m.Data[i*FloatsPerVertex+tangentOffset:], t[:])
}

// Bounds returns the axis aligned min and max corners.
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if m.VertexCount() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := m.Position(0), m.Position(0)
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

// MeshBuffers are the GL objects backing an uploaded mesh.
type MeshBuffers struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Upload copies the mesh into a new VAO/VBO/EBO triple.
func Upload(mesh *Mesh) MeshBuffers {
	var b MeshBuffers
	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Data)*4, gl.Ptr(mesh.Data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(FloatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOffset*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(normalOffset*4))
	gl.EnableVertexAttribArray(2)

	gl.VertexAttribPointer(3, 3, gl.FLOAT, false, stride, gl.PtrOffset(tangentOffset*4))
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	b.IndexCount = int32(len(mesh.Indices))
	return b
}

func (b *MeshBuffers) Draw() {
	if b.VAO == 0 {
		return
	}
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, b.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (b *MeshBuffers) Delete() {
	if b.VAO == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteBuffers(1, &b.EBO)
	*b = MeshBuffers{}
}
