package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// RayIntersectTriangle tests if a ray intersects a triangle
// Returns: (intersected, distance, intersection point)
// Uses Möller-Trumbore algorithm
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3) (bool, float32, mgl32.Vec3) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return false, 0, mgl32.Vec3{} // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	t := f * edge2.Dot(q)
	if t > epsilon {
		return true, t, ray.Origin.Add(ray.Direction.Mul(t))
	}

	return false, 0, mgl32.Vec3{} // Line intersection but not ray intersection
}

// RayIntersectModel tests every triangle of the model in world space and
// returns the closest hit.
func RayIntersectModel(ray Ray, model *Model) (bool, float32, mgl32.Vec3) {
	mesh := model.Mesh
	if mesh == nil || len(mesh.Indices) < 3 {
		return false, 0, mgl32.Vec3{}
	}
	world := model.ModelMatrix()
	toWorld := func(i uint32) mgl32.Vec3 {
		return mgl32.TransformCoordinate(mesh.Position(int(i)), world)
	}

	hit := false
	var best float32
	var point mgl32.Vec3
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		ok, t, p := RayIntersectTriangle(ray, toWorld(mesh.Indices[i]), toWorld(mesh.Indices[i+1]), toWorld(mesh.Indices[i+2]))
		if ok && (!hit || t < best) {
			hit, best, point = true, t, p
		}
	}
	return hit, best, point
}

// HeightAbove casts straight down from position and reports the distance
// to the first surface of ground.
func HeightAbove(position mgl32.Vec3, ground *Model) (float32, bool) {
	hit, t, _ := RayIntersectModel(Ray{Origin: position, Direction: mgl32.Vec3{0, -1, 0}}, ground)
	return t, hit
}
