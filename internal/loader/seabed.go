package loader

import (
	"Aviary/internal/logger"
	"Aviary/internal/renderer"
	"errors"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Perlin parameters: smoothness, frequency ratio between octaves, octaves.
const (
	seabedAlpha   = 2
	seabedBeta    = 2
	seabedOctaves = 3

	// seabedTiling is how many times the texture repeats across the seabed.
	seabedTiling = 8
)

// GenerateSeabed builds a size x size heightfield centered on the origin
// with resolution vertices per side. Heights come from Perlin noise, so
// the same seed always gives the same terrain.
func GenerateSeabed(size float32, resolution int, amplitude float32, frequency float64, seed int64) (*renderer.Mesh, error) {
	if resolution < 2 {
		return nil, errors.New("seabed resolution must be at least 2")
	}
	if size <= 0 {
		return nil, errors.New("seabed size must be positive")
	}
	noise := perlin.NewPerlin(seabedAlpha, seabedBeta, seabedOctaves, seed)

	mesh := &renderer.Mesh{
		Data:     make([]float32, 0, resolution*resolution*renderer.FloatsPerVertex),
		Indices:  make([]uint32, 0, (resolution-1)*(resolution-1)*6),
		Material: renderer.DefaultMaterial(),
	}
	mesh.Material.Name = "seabed"
	mesh.Material.DiffuseColor = mgl32.Vec3{0.76, 0.70, 0.50}

	stepSize := size / float32(resolution-1)
	start := -size * 0.5

	// Generate vertices
	for x := 0; x < resolution; x++ {
		for z := 0; z < resolution; z++ {
			posX := start + float32(x)*stepSize
			posZ := start + float32(z)*stepSize
			height := amplitude * float32(noise.Noise2D(float64(posX)*frequency, float64(posZ)*frequency))
			u := float32(x) / float32(resolution-1) * seabedTiling
			v := float32(z) / float32(resolution-1) * seabedTiling
			mesh.Data = append(mesh.Data, posX, height, posZ, u, v, 0, 1, 0, 1, 0, 0)
		}
	}

	// Generate indices for triangles, counter clockwise seen from above
	for x := 0; x < resolution-1; x++ {
		for z := 0; z < resolution-1; z++ {
			topLeft := uint32(x*resolution + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*resolution + z)
			bottomRight := bottomLeft + 1

			mesh.Indices = append(mesh.Indices, topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft)
		}
	}

	RecalculateNormals(mesh)
	ComputeTangents(mesh)

	logger.Log.Info("Seabed generated",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Float32("size", size),
		zap.Int("resolution", resolution),
		zap.Int64("seed", seed))
	return mesh, nil
}
