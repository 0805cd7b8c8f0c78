package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() *Camera {
	return NewPerspectiveCamera("third", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 60, 1, 0.1, 100)
}

func TestNewPerspectiveCamera(t *testing.T) {
	cam := newTestCamera()

	if !cam.IsPerspective() {
		t.Fatal("Camera should be perspective")
	}
	if cam.Sensitivity <= 0 {
		t.Error("Camera sensitivity should be positive")
	}

	proj := cam.GetProjectionMatrix()
	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
	if proj.At(3, 2) != -1.0 {
		t.Error("Perspective projection should have -1 at (3,2)")
	}
}

func TestNewOrthoCamera(t *testing.T) {
	cam := NewOrthoCamera("ortho", mgl32.Vec3{0, 10, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 5, 2, 0.1, 100)

	if cam.IsPerspective() {
		t.Fatal("Camera should be orthographic")
	}

	proj := cam.GetProjectionMatrix()
	if proj.At(3, 3) != 1.0 {
		t.Error("Orthographic projection should have 1 at (3,3)")
	}
	// Half width is HalfExtent * aspect
	if !mgl32.FloatEqual(proj.At(0, 0), 1.0/10.0) {
		t.Errorf("Expected x scale 0.1, got %f", proj.At(0, 0))
	}
	if !mgl32.FloatEqual(proj.At(1, 1), 1.0/5.0) {
		t.Errorf("Expected y scale 0.2, got %f", proj.At(1, 1))
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := newTestCamera()

	origin := cam.GetViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !vecNear(origin.Vec3(), mgl32.Vec3{0, 0, -5}) {
		t.Errorf("Target should sit 5 units in front of the eye, got %v", origin)
	}
}

func TestCameraUpdateFields(t *testing.T) {
	cam := newTestCamera()
	cam.UpdateFields(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, 0})

	if cam.Position != (mgl32.Vec3{10, 0, 0}) {
		t.Errorf("Position not updated: %v", cam.Position)
	}
	if cam.Target != (mgl32.Vec3{}) {
		t.Errorf("Target not updated: %v", cam.Target)
	}

	p := cam.GetViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !vecNear(p.Vec3(), mgl32.Vec3{0, 0, -10}) {
		t.Errorf("View matrix not rebuilt, got %v", p)
	}
}

func TestCameraSetAspectRatio(t *testing.T) {
	cam := newTestCamera()
	before := cam.GetProjectionMatrix()

	cam.SetAspectRatio(2)
	if cam.AspectRatio != 2 {
		t.Errorf("Expected aspect 2, got %f", cam.AspectRatio)
	}
	if cam.GetProjectionMatrix() == before {
		t.Error("Projection should change with aspect ratio")
	}

	cam.SetAspectRatio(0)
	if cam.AspectRatio != 2 {
		t.Error("Zero aspect ratio should be ignored")
	}
}

func TestCameraProcessMouse(t *testing.T) {
	cam := newTestCamera()

	cam.ProcessMouse(100, 100)
	if cam.Yaw != 0 || cam.Pitch != 0 {
		t.Fatal("First mouse sample should only record the position")
	}

	cam.ProcessMouse(110, 90)
	if !mgl32.FloatEqual(cam.Yaw, 1) {
		t.Errorf("Expected yaw 1, got %f", cam.Yaw)
	}
	if !mgl32.FloatEqual(cam.Pitch, 1) {
		t.Errorf("Expected pitch 1, got %f", cam.Pitch)
	}

	cam.ResetMouse()
	cam.ProcessMouse(500, 500)
	if !mgl32.FloatEqual(cam.Yaw, 1) {
		t.Error("Sample after reset should not move the camera")
	}
}

func TestCameraPitchClamp(t *testing.T) {
	cam := newTestCamera()

	cam.Orbit(0, 10000)
	if cam.Pitch != 89 {
		t.Errorf("Pitch should clamp to 89, got %f", cam.Pitch)
	}

	cam.Orbit(0, -20000)
	if cam.Pitch != -89 {
		t.Errorf("Pitch should clamp to -89, got %f", cam.Pitch)
	}
}

func TestCameraOrbitOffset(t *testing.T) {
	cam := newTestCamera()
	forward := mgl32.Vec3{0, 0, -1}

	if cam.OrbitOffset(forward) != forward {
		t.Error("Zero orbit should leave the direction untouched")
	}

	cam.Yaw = 90
	if got := cam.OrbitOffset(forward); !vecNear(got, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Yaw 90 should turn forward to +X, got %v", got)
	}

	cam.Yaw = 0
	cam.Pitch = 30
	got := cam.OrbitOffset(forward)
	if got.Y() >= 0 {
		t.Errorf("Positive pitch should tilt the direction down, got %v", got)
	}
	if !mgl32.FloatEqualThreshold(got.Len(), 1, 1e-5) {
		t.Errorf("Orbit direction should stay normalized, got length %f", got.Len())
	}
}
