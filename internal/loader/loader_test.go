package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) error {
	t.Helper()
	_, err := ParseOBJ(strings.NewReader(src), t.TempDir())
	return err
}

const quadOBJ = `
# unit quad in the XZ plane
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 4/4/1 3/3/1 2/2/1
`

func TestParseOBJQuadIsFanTriangulated(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "")
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, mgl32.Vec2{0, 1}, mesh.UV(1))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, mesh.Normal(2))
	assert.Equal(t, "default", mesh.Material.Name)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 5 5 5
f 1 2 -1
`), "")
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 1, 3}, mesh.Indices)
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, mesh.Position(3))
}

func TestParseOBJUnifiesTriplets(t *testing.T) {
	// Same position with two different UVs must become two vertices.
	mesh, err := ParseOBJ(strings.NewReader(`
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 1
f 1/1 2/1 3/1
f 1/2 3/1 2/1
`), "")
	require.NoError(t, err)

	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 2, 1}, mesh.Indices)
	assert.Equal(t, mesh.Position(0), mesh.Position(3))
	assert.NotEqual(t, mesh.UV(0), mesh.UV(3))
}

func TestParseOBJNormalOnlyFaces(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"), "")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Normal(0))
	assert.Equal(t, mgl32.Vec2{}, mesh.UV(0))
}

func TestParseOBJMalformed(t *testing.T) {
	cases := map[string]string{
		"bad float":        "v 0 zero 0\n",
		"short vertex":     "v 0 0\n",
		"zero index":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"index too large":  "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"negative too far": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 1 2\n",
		"two vertex face":  "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"missing uv":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n",
		"too many slashes": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n",
		"no faces":         "v 0 0 0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, parse(t, src), ErrMalformed)
		})
	}
}

func TestParseOBJErrorHasLineNumber(t *testing.T) {
	err := parse(t, "v 0 0 0\n\nv bad 0 0\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseOBJMaterials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bird.mtl"), []byte(`
newmtl feathers
Kd 0.5 0.25 1
Ks 0.1 0.1 0.1
Ns 64
map_Kd bird.png
`), 0o644))

	mesh, err := ParseOBJ(strings.NewReader("mtllib bird.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl feathers\nf 1 2 3\n"), dir)
	require.NoError(t, err)

	m := mesh.Material
	assert.Equal(t, "feathers", m.Name)
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, m.DiffuseColor)
	assert.Equal(t, float32(64), m.Shininess)
	assert.Equal(t, filepath.Join(dir, "bird.png"), m.TexturePath)
}

func TestLoadMaterialsMissingFile(t *testing.T) {
	materials := LoadMaterials(filepath.Join(t.TempDir(), "nope.mtl"))
	require.Contains(t, materials, "default")
	assert.Len(t, materials, 1)
}

func TestLoadMeshComputesNormalsAndTangents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(p, []byte("v 0 0 0\nv 0 0 1\nv 1 0 0\nvt 0 0\nvt 0 1\nvt 1 0\nf 1/1 2/2 3/3\n"), 0o644))

	mesh, err := LoadMesh(p, false)
	require.NoError(t, err)

	for i := 0; i < mesh.VertexCount(); i++ {
		assert.True(t, mesh.Normal(i).ApproxEqual(mgl32.Vec3{0, 1, 0}), "normal %d: %v", i, mesh.Normal(i))
		assert.True(t, mesh.Tangent(i).ApproxEqual(mgl32.Vec3{1, 0, 0}), "tangent %d: %v", i, mesh.Tangent(i))
	}
}

func TestLoadMeshEmbeddedBird(t *testing.T) {
	// Not on disk relative to the test, so this comes from the embedded copy.
	mesh, err := LoadMesh(filepath.Join("does-not-exist", "models", "bird.obj"), false)
	require.NoError(t, err)
	assert.Greater(t, mesh.VertexCount(), 0)
	assert.Equal(t, "feathers", mesh.Material.Name)
}

func TestLoadMeshMissing(t *testing.T) {
	_, err := LoadMesh(filepath.Join(t.TempDir(), "models", "nope.obj"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
