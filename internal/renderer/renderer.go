package renderer

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var FaceCullingEnabled bool = false
var Debug bool = false
var DepthTestEnabled bool = true
var ClearColor = mgl32.Vec3{0, 0, 0} // Background clear color

type Render interface {
	Init(width, height int32, window *glfw.Window) error
	BeginFrame()
	AddModel(model *Model)
	RemoveModel(model *Model)
	DrawModels(shader *Shader)
	UpdateViewport(width, height int32)
	Cleanup()
}
