// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionKind int

const (
	PerspectiveProjection ProjectionKind = iota
	OrthographicProjection
)

const maxOrbitPitch = 89.0

type Camera struct {
	// HOT DATA - rewritten every frame by the follow logic
	Position mgl32.Vec3 // Eye position in world space
	Target   mgl32.Vec3 // Point the camera looks at
	WorldUp  mgl32.Vec3 // Usually (0,1,0)

	// Projection parameters
	Kind        ProjectionKind
	Fov         float32 // Vertical field of view in degrees (perspective)
	HalfExtent  float32 // Half height of the view volume (orthographic)
	AspectRatio float32
	Near        float32
	Far         float32

	// Orbit offsets in degrees, driven by the mouse
	Yaw         float32
	Pitch       float32
	Sensitivity float32

	Name string

	view         mgl32.Mat4
	projection   mgl32.Mat4
	lastX, lastY float64
	firstMouse   bool
}

func NewPerspectiveCamera(name string, position, target, up mgl32.Vec3, fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Name:        name,
		Position:    position,
		Target:      target,
		WorldUp:     up,
		Kind:        PerspectiveProjection,
		Fov:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		Sensitivity: 0.1,
		firstMouse:  true,
	}
	c.UpdateProjection()
	c.updateView()
	return c
}

func NewOrthoCamera(name string, position, target, up mgl32.Vec3, halfExtent, aspect, near, far float32) *Camera {
	c := &Camera{
		Name:        name,
		Position:    position,
		Target:      target,
		WorldUp:     up,
		Kind:        OrthographicProjection,
		HalfExtent:  halfExtent,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		Sensitivity: 0.1,
		firstMouse:  true,
	}
	c.UpdateProjection()
	c.updateView()
	return c
}

func (c *Camera) IsPerspective() bool {
	return c.Kind == PerspectiveProjection
}

func (c *Camera) UpdateProjection() {
	switch c.Kind {
	case OrthographicProjection:
		w := c.HalfExtent * c.AspectRatio
		c.projection = mgl32.Ortho(-w, w, -c.HalfExtent, c.HalfExtent, c.Near, c.Far)
	default:
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
	}
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	if aspectRatio <= 0 {
		return
	}
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// UpdateFields moves the camera and re-aims it.
func (c *Camera) UpdateFields(position, target mgl32.Vec3) {
	c.Position = position
	c.Target = target
	c.updateView()
}

func (c *Camera) updateView() {
	c.view = mgl32.LookAtV(c.Position, c.Target, c.WorldUp)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return c.view
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Apply pushes the camera uniforms to shader.
func (c *Camera) Apply(shader *Shader) {
	shader.SetMat4("view", c.view)
	shader.SetMat4("projection", c.projection)
	shader.SetVec3("cameraPos", c.Position)
}

// ProcessMouse turns absolute cursor positions into orbit offsets. The
// first sample after ResetMouse only records the position.
func (c *Camera) ProcessMouse(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return
	}
	xoffset := xpos - c.lastX
	yoffset := c.lastY - ypos // Reversed since y-coordinates go from bottom to top
	c.lastX, c.lastY = xpos, ypos
	c.Orbit(float32(xoffset), float32(yoffset))
}

func (c *Camera) Orbit(xoffset, yoffset float32) {
	c.Yaw += xoffset * c.Sensitivity
	c.Pitch += yoffset * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxOrbitPitch, maxOrbitPitch) // Prevent flipping over the poles
}

func (c *Camera) ResetMouse() {
	c.firstMouse = true
}

// OrbitOffset rotates a follow direction by the orbit offsets. A
// positive pitch tilts the direction down so the eye behind it rises.
func (c *Camera) OrbitOffset(dir mgl32.Vec3) mgl32.Vec3 {
	if c.Yaw == 0 && c.Pitch == 0 {
		return dir
	}
	rotated := mgl32.QuatRotate(mgl32.DegToRad(-c.Yaw), c.WorldUp).Rotate(dir)
	right := rotated.Cross(c.WorldUp)
	if right.Len() > 1e-6 {
		rotated = mgl32.QuatRotate(mgl32.DegToRad(-c.Pitch), right.Normalize()).Rotate(rotated)
	}
	return rotated.Normalize()
}
