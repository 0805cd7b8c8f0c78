package loader

import (
	"Aviary/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

const degenerateEpsilon = 1e-8

func missingNormals(mesh *renderer.Mesh) bool {
	for i := 0; i < mesh.VertexCount(); i++ {
		if mesh.Normal(i).Len() < 1e-6 {
			return true
		}
	}
	return false
}

// RecalculateNormals replaces the normals with smooth, area weighted face
// normals. Vertices sharing a position share a normal, so UV seams do not
// show up as lighting seams.
func RecalculateNormals(mesh *renderer.Mesh) {
	sums := make(map[mgl32.Vec3]mgl32.Vec3, mesh.VertexCount())
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		p0, p1, p2 := mesh.Position(int(a)), mesh.Position(int(b)), mesh.Position(int(c))
		// Unnormalized cross product weighs by triangle area
		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, p := range [3]mgl32.Vec3{p0, p1, p2} {
			sums[p] = sums[p].Add(faceNormal)
		}
	}
	for i := 0; i < mesh.VertexCount(); i++ {
		n := sums[mesh.Position(i)]
		if n.Len() < degenerateEpsilon {
			n = mgl32.Vec3{0, 1, 0}
		}
		mesh.SetNormal(i, n.Normalize())
	}
}

// ComputeTangents derives per vertex tangents from the UV layout,
// orthogonalized against the normal.
func ComputeTangents(mesh *renderer.Mesh) {
	tangents := make([]mgl32.Vec3, mesh.VertexCount())
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		idx := [3]int{int(mesh.Indices[i]), int(mesh.Indices[i+1]), int(mesh.Indices[i+2])}
		p0, p1, p2 := mesh.Position(idx[0]), mesh.Position(idx[1]), mesh.Position(idx[2])
		uv0, uv1, uv2 := mesh.UV(idx[0]), mesh.UV(idx[1]), mesh.UV(idx[2])

		edge1, edge2 := p1.Sub(p0), p2.Sub(p0)
		du1, dv1 := uv1[0]-uv0[0], uv1[1]-uv0[1]
		du2, dv2 := uv2[0]-uv0[0], uv2[1]-uv0[1]

		det := du1*dv2 - du2*dv1
		if det > -degenerateEpsilon && det < degenerateEpsilon {
			continue // No usable UV mapping on this triangle
		}
		r := 1 / det
		t := edge1.Mul(dv2).Sub(edge2.Mul(dv1)).Mul(r)
		for _, v := range idx {
			tangents[v] = tangents[v].Add(t)
		}
	}

	for i, t := range tangents {
		n := mesh.Normal(i)
		// Gram-Schmidt
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.Len() < 1e-6 {
			t = perpendicular(n)
		}
		mesh.SetTangent(i, t.Normalize())
	}
}

// perpendicular returns some unit vector orthogonal to n.
func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if n.X() > 0.9 || n.X() < -0.9 {
		axis = mgl32.Vec3{0, 0, 1}
	}
	t := axis.Sub(n.Mul(n.Dot(axis)))
	if t.Len() < 1e-6 {
		return axis
	}
	return t.Normalize()
}
