package renderer

import (
	"Aviary/assets"
	"Aviary/internal/logger"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrShaderCompile = errors.New("shader compile failed")
	ErrShaderLink    = errors.New("shader link failed")
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name           string
	VertexPath     string
	FragmentPath   string
	vertexSource   string
	fragmentSource string
	program        uint32
	uniforms       *UniformCache
}

// LoadShader reads both stages from disk (or the embedded defaults) and
// links them into a program. Needs a current GL context.
func LoadShader(name, vertexPath, fragmentPath string) (*Shader, error) {
	shader := &Shader{Name: name, VertexPath: vertexPath, FragmentPath: fragmentPath}
	if err := shader.readSources(); err != nil {
		return nil, err
	}
	if err := shader.Compile(); err != nil {
		return nil, err
	}
	logger.Log.Info("Shader loaded",
		zap.String("name", name),
		zap.String("vertex", vertexPath),
		zap.String("fragment", fragmentPath),
		zap.Uint32("program", shader.program))
	return shader, nil
}

func (shader *Shader) readSources() error {
	vert, err := assets.ReadFile(shader.VertexPath)
	if err != nil {
		return fmt.Errorf("read vertex shader %s: %w", shader.VertexPath, err)
	}
	frag, err := assets.ReadFile(shader.FragmentPath)
	if err != nil {
		return fmt.Errorf("read fragment shader %s: %w", shader.FragmentPath, err)
	}
	shader.vertexSource = terminate(string(vert))
	shader.fragmentSource = terminate(string(frag))
	return nil
}

// terminate appends the NUL go-gl expects at the end of C strings.
func terminate(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

// Compile builds a fresh program from the current sources and makes it
// the active one for this shader.
func (shader *Shader) Compile() error {
	program, err := buildProgram(shader.vertexSource, shader.fragmentSource)
	if err != nil {
		return fmt.Errorf("shader %q: %w", shader.Name, err)
	}
	shader.program = program
	if shader.uniforms == nil {
		shader.uniforms = NewUniformCache(program)
	} else {
		shader.uniforms.Reset(program)
	}
	return nil
}

// Reload re-reads the sources from disk. The previous program stays in use
// when reading, compiling or linking fails.
func (shader *Shader) Reload() error {
	oldVert, oldFrag, oldProgram := shader.vertexSource, shader.fragmentSource, shader.program
	if err := shader.readSources(); err != nil {
		return err
	}
	if err := shader.Compile(); err != nil {
		shader.vertexSource, shader.fragmentSource, shader.program = oldVert, oldFrag, oldProgram
		shader.uniforms.Reset(oldProgram)
		return err
	}
	if oldProgram != 0 {
		gl.DeleteProgram(oldProgram)
	}
	logger.Log.Info("Shader reloaded", zap.String("name", shader.Name), zap.Uint32("program", shader.program))
	return nil
}

// Uses reports whether path is one of this shader's stage files.
func (shader *Shader) Uses(path string) bool {
	return path != "" && (path == shader.VertexPath || path == shader.FragmentPath)
}

func (shader *Shader) Program() uint32 {
	return shader.program
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.program != 0 {
		gl.DeleteProgram(shader.program)
		shader.program = 0
	}
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.uniforms.SetMat4(name, value)
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	shader.uniforms.SetVec3(name, value)
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.uniforms.SetFloat(name, value)
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.uniforms.SetInt(name, value)
}

func (shader *Shader) SetBool(name string, value bool) {
	shader.uniforms.SetBool(name, value)
}

func buildProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := GenShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := GenShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}
	return GenShaderProgram(vertexShader, fragmentShader)
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%w: %s stage: %s", ErrShaderCompile, stageName(shaderType), strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: %s", ErrShaderLink, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("type %d", shaderType)
	}
}
