package renderer

import (
	"Aviary/internal/logger"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SkyboxFaceNames lists the cube map faces in upload order.
var SkyboxFaceNames = [6]string{"right", "left", "up", "down", "front", "back"}

type Skybox struct {
	VAO       uint32
	VBO       uint32
	TextureID uint32
	Color     mgl32.Vec3 // Fill for missing faces
}

// NewSkybox decodes the six faces concurrently and uploads them to a cube
// map. Empty or unreadable faces are filled with color.
func NewSkybox(faces [6]string, color mgl32.Vec3) *Skybox {
	images, err := DecodeImages(faces[:], false)
	if err != nil {
		logger.Log.Warn("Skybox faces missing, using solid color", zap.Error(err))
	}

	skybox := &Skybox{Color: color}
	skybox.TextureID = uploadCubeMap(cubeFaces(images, color))
	skybox.VAO, skybox.VBO = createSkyboxCube()

	logger.Log.Info("Skybox created",
		zap.Uint32("textureID", skybox.TextureID),
		zap.Strings("faces", faces[:]))
	return skybox
}

// cubeFaces fills gaps with a solid color and resizes every face to the
// size of the first decoded one; cube map faces must match.
func cubeFaces(images []*image.RGBA, fill mgl32.Vec3) [6]*image.RGBA {
	w, h := 1, 1
	for _, img := range images {
		if img != nil {
			w, h = img.Rect.Dx(), img.Rect.Dy()
			break
		}
	}

	var faces [6]*image.RGBA
	for i := range faces {
		var img *image.RGBA
		if i < len(images) {
			img = images[i]
		}
		switch {
		case img == nil:
			faces[i] = solidImage(w, h, fill)
		case img.Rect.Dx() != w || img.Rect.Dy() != h:
			logger.Log.Warn("Skybox face size mismatch, resizing",
				zap.String("face", SkyboxFaceNames[i]),
				zap.Int("width", img.Rect.Dx()),
				zap.Int("height", img.Rect.Dy()))
			faces[i] = transform.Resize(img, w, h, transform.Linear)
		default:
			faces[i] = img
		}
	}
	return faces
}

func solidImage(w, h int, c mgl32.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	px := color.RGBA{R: unitByte(c[0]), G: unitByte(c[1]), B: unitByte(c[2]), A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, px)
		}
	}
	return img
}

func unitByte(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

func uploadCubeMap(faces [6]*image.RGBA) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	for i, face := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(face.Rect.Dx()), int32(face.Rect.Dy()),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return textureID
}

func createSkyboxCube() (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyboxVertices)*4, gl.Ptr(skyboxVertices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	return vao, vbo
}

// SkyboxView drops the translation so the cube stays centered on the eye.
func SkyboxView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}

// Draw renders the cube behind everything else. Call it after the scene.
func (s *Skybox) Draw(shader *Shader, view, projection mgl32.Mat4) {
	if s.VAO == 0 {
		return
	}
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	if FaceCullingEnabled {
		gl.Disable(gl.CULL_FACE) // Seen from inside
	}

	shader.Use()
	shader.SetMat4("view", SkyboxView(view))
	shader.SetMat4("projection", projection)
	shader.SetInt("skybox", 0)

	gl.BindVertexArray(s.VAO)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, s.TextureID)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(skyboxVertices)/3))
	gl.BindVertexArray(0)

	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
	}
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

func (s *Skybox) Cleanup() {
	if s.VAO != 0 {
		gl.DeleteVertexArrays(1, &s.VAO)
		gl.DeleteBuffers(1, &s.VBO)
	}
	if s.TextureID != 0 {
		gl.DeleteTextures(1, &s.TextureID)
	}
	*s = Skybox{Color: s.Color}
}

var skyboxVertices = []float32{
	// Positions (unit cube centered at origin)
	-1, 1, -1,
	-1, -1, -1,
	1, -1, -1,
	1, -1, -1,
	1, 1, -1,
	-1, 1, -1,

	-1, -1, 1,
	-1, -1, -1,
	-1, 1, -1,
	-1, 1, -1,
	-1, 1, 1,
	-1, -1, 1,

	1, -1, -1,
	1, -1, 1,
	1, 1, 1,
	1, 1, 1,
	1, 1, -1,
	1, -1, -1,

	-1, -1, 1,
	-1, 1, 1,
	1, 1, 1,
	1, 1, 1,
	1, -1, 1,
	-1, -1, 1,

	-1, 1, -1,
	1, 1, -1,
	1, 1, 1,
	1, 1, 1,
	-1, 1, 1,
	-1, 1, -1,

	-1, -1, -1,
	-1, -1, 1,
	1, -1, -1,
	1, -1, -1,
	-1, -1, 1,
	1, -1, 1,
}
