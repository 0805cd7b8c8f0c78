package renderer

import (
	"Aviary/internal/logger"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	MaxIntensity = 10.0
	MinCutoff    = 1.0
	MaxCutoff    = 89.0
	// OuterCutoffMargin is the soft edge added around the inner cone, in degrees.
	OuterCutoffMargin = 5.0

	intensityStep = 0.1
	cutoffStep    = 1.0
)

// Light holds the parameters shared by every light kind.
type Light struct {
	AmbientStrength  float32
	AmbientColor     mgl32.Vec3
	SpecularStrength float32
	SpecularPhong    float32
	Color            mgl32.Vec3
	Intensity        float32
}

func newLight(ambient, spec, phong float32, color mgl32.Vec3, intensity float32) Light {
	l := Light{
		AmbientStrength:  ambient,
		AmbientColor:     color,
		SpecularStrength: spec,
		SpecularPhong:    phong,
		Color:            color,
	}
	l.SetIntensity(intensity)
	return l
}

// SetIntensity clamps to [0, MaxIntensity].
func (l *Light) SetIntensity(v float32) {
	l.Intensity = mgl32.Clamp(v, 0, MaxIntensity)
}

func (l *Light) apply(shader *Shader, prefix string) {
	shader.SetFloat(prefix+"ambientStr", l.AmbientStrength)
	shader.SetVec3(prefix+"ambientColor", l.AmbientColor)
	shader.SetFloat(prefix+"specStr", l.SpecularStrength)
	shader.SetFloat(prefix+"specPhong", l.SpecularPhong)
	shader.SetVec3(prefix+"color", l.Color)
	shader.SetFloat(prefix+"intensity", l.Intensity)
}

type DirectionalLight struct {
	Light
	Direction mgl32.Vec3
}

func NewDirectionalLight(ambient, spec, phong float32, color mgl32.Vec3, intensity float32, direction mgl32.Vec3) *DirectionalLight {
	return &DirectionalLight{
		Light:     newLight(ambient, spec, phong, color, intensity),
		Direction: normalizeOr(direction, mgl32.Vec3{0, -1, 0}),
	}
}

func (d *DirectionalLight) Apply(shader *Shader) {
	d.apply(shader, "dirLight.")
	shader.SetVec3("dirLight.direction", d.Direction)
}

type SpotLight struct {
	Light
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Constant  float32
	Linear    float32
	Quadratic float32
	Enabled   bool

	cutoff      float32 // degrees
	outerCutoff float32 // degrees
}

func NewSpotLight(ambient, spec, phong float32, color mgl32.Vec3, intensity float32, position, direction mgl32.Vec3, cutoff float32) *SpotLight {
	s := &SpotLight{
		Light:     newLight(ambient, spec, phong, color, intensity),
		Position:  position,
		Direction: normalizeOr(direction, Forward),
		Constant:  1,
		Linear:    0.09,
		Quadratic: 0.032,
		Enabled:   true,
	}
	s.SetCutoff(cutoff)
	return s
}

// SetCutoff clamps the inner cone to [MinCutoff, MaxCutoff] degrees and
// keeps the outer cone OuterCutoffMargin wider, never past MaxCutoff.
func (s *SpotLight) SetCutoff(deg float32) {
	s.cutoff = mgl32.Clamp(deg, MinCutoff, MaxCutoff)
	s.outerCutoff = min(s.cutoff+OuterCutoffMargin, MaxCutoff)
}

func (s *SpotLight) Cutoff() float32 {
	return s.cutoff
}

func (s *SpotLight) OuterCutoff() float32 {
	return s.outerCutoff
}

// CutoffCosines returns the inner and outer cone cosines the shader compares against.
func (s *SpotLight) CutoffCosines() (float32, float32) {
	return cosDeg(s.cutoff), cosDeg(s.outerCutoff)
}

// UpdateFields places the light at position pointing along direction.
func (s *SpotLight) UpdateFields(position, direction mgl32.Vec3) {
	s.Position = position
	s.Direction = normalizeOr(direction, s.Direction)
}

func (s *SpotLight) Toggle() {
	s.Enabled = !s.Enabled
	logger.Log.Info("Spot light toggled", zap.Bool("enabled", s.Enabled))
}

// ProcessKeyboard handles the arrow keys: Up/Down change intensity,
// Left/Right narrow or widen the cone. Returns false for other keys.
func (s *SpotLight) ProcessKeyboard(key glfw.Key) bool {
	switch key {
	case glfw.KeyUp:
		s.SetIntensity(s.Intensity + intensityStep)
	case glfw.KeyDown:
		s.SetIntensity(s.Intensity - intensityStep)
	case glfw.KeyLeft:
		s.SetCutoff(s.cutoff - cutoffStep)
	case glfw.KeyRight:
		s.SetCutoff(s.cutoff + cutoffStep)
	default:
		return false
	}
	logger.Log.Debug("Spot light adjusted",
		zap.Float32("intensity", s.Intensity),
		zap.Float32("cutoff", s.cutoff),
		zap.Float32("outerCutoff", s.outerCutoff))
	return true
}

func (s *SpotLight) Apply(shader *Shader) {
	s.apply(shader, "spotLight.")
	inner, outer := s.CutoffCosines()
	shader.SetVec3("spotLight.position", s.Position)
	shader.SetVec3("spotLight.direction", s.Direction)
	shader.SetFloat("spotLight.cutOff", inner)
	shader.SetFloat("spotLight.outerCutOff", outer)
	shader.SetFloat("spotLight.constant", s.Constant)
	shader.SetFloat("spotLight.linear", s.Linear)
	shader.SetFloat("spotLight.quadratic", s.Quadratic)
	shader.SetBool("spotLight.enabled", s.Enabled)
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-6 {
		return fallback
	}
	return v.Normalize()
}
