package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Sampler uniforms of the main shader.
const (
	DiffuseUniform   = "tex0"
	NormalMapUniform = "norm_tex"
)

var (
	// Forward is the direction a model faces with a zero heading.
	Forward = mgl32.Vec3{0, 0, -1}
	WorldUp = mgl32.Vec3{0, 1, 0}
)

// TextureBinding ties a texture to a sampler uniform. The slice index of a
// binding inside Model.Textures is its texture unit.
type TextureBinding struct {
	Uniform   string
	TextureID uint32
}

type Model struct {
	// HOT DATA - touched every frame
	Position mgl32.Vec3 // World position
	Scale    mgl32.Vec3 // Scale factors
	Rotation mgl32.Quat // Orientation from the scene file
	Heading  float32    // Yaw in degrees applied on top of Rotation
	Textures []TextureBinding
	Material *Material

	// COLD DATA
	Name    string
	Mesh    *Mesh
	buffers MeshBuffers

	modelMatrix mgl32.Mat4
	isDirty     bool
}

// NewModel places mesh in the world. rotation is in Euler degrees (X, Y, Z).
func NewModel(name string, mesh *Mesh, position, scale, rotation mgl32.Vec3) *Model {
	m := &Model{
		Name:     name,
		Mesh:     mesh,
		Position: position,
		Scale:    scale,
		Rotation: mgl32.QuatIdent(),
		Material: DefaultMaterial(),
		isDirty:  true,
	}
	if mesh != nil && mesh.Material != nil {
		m.Material = mesh.Material
	}
	m.Rotate(rotation.X(), rotation.Y(), rotation.Z())
	return m
}

func (m *Model) X() float32 {
	return m.Position[0]
}

func (m *Model) Y() float32 {
	return m.Position[1]
}

func (m *Model) Z() float32 {
	return m.Position[2]
}

func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.isDirty = true
}

func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.isDirty = true
}

func (m *Model) Translate(delta mgl32.Vec3) {
	m.Position = m.Position.Add(delta)
	m.isDirty = true
}

func (m *Model) SetHeading(degrees float32) {
	m.Heading = wrapDegrees(degrees)
	m.isDirty = true
}

// Direction is the normalized forward vector after applying the heading.
func (m *Model) Direction() mgl32.Vec3 {
	return m.headingQuat().Rotate(Forward).Normalize()
}

func (m *Model) headingQuat() mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(m.Heading), WorldUp)
}

// ModelMatrix is translation * heading * rotation * scale.
func (m *Model) ModelMatrix() mgl32.Mat4 {
	if m.isDirty {
		scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
		rotationMatrix := m.headingQuat().Mul(m.Rotation).Mat4()
		translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
		m.modelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
		m.isDirty = false
	}
	return m.modelMatrix
}

// BindTexture sets the texture for uniform. When an earlier binding is
// replaced its texture ID is returned so the caller can release it.
func (m *Model) BindTexture(uniform string, textureID uint32) (previous uint32, replaced bool) {
	for i := range m.Textures {
		if m.Textures[i].Uniform == uniform {
			previous = m.Textures[i].TextureID
			m.Textures[i].TextureID = textureID
			return previous, true
		}
	}
	m.Textures = append(m.Textures, TextureBinding{Uniform: uniform, TextureID: textureID})
	return 0, false
}

func (m *Model) Texture(uniform string) (uint32, bool) {
	for _, t := range m.Textures {
		if t.Uniform == uniform {
			return t.TextureID, true
		}
	}
	return 0, false
}

// Upload creates the GPU buffers for the mesh. Needs a current GL context.
func (m *Model) Upload() {
	if m.Mesh == nil || m.buffers.VAO != 0 {
		return
	}
	m.buffers = Upload(m.Mesh)
}

func (m *Model) Draw(shader *Shader) {
	shader.SetMat4("transform", m.ModelMatrix())
	if m.Material != nil {
		shader.SetVec3("diffuseColor", m.Material.DiffuseColor)
	}
	_, hasNormalMap := m.Texture(NormalMapUniform)
	shader.SetBool("hasNormalMap", hasNormalMap)

	for unit, t := range m.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, t.TextureID)
		shader.SetInt(t.Uniform, int32(unit))
	}

	m.buffers.Draw()
	gl.ActiveTexture(gl.TEXTURE0)
}

// Delete frees the GPU buffers. Textures belong to the TextureManager.
func (m *Model) Delete() {
	m.buffers.Delete()
}

func wrapDegrees(d float32) float32 {
	for d >= 360 {
		d -= 360
	}
	for d < 0 {
		d += 360
	}
	return d
}
