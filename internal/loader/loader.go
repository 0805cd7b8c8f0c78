package loader

import (
	"Aviary/assets"
	"Aviary/internal/logger"
	"Aviary/internal/renderer"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrMalformed = errors.New("malformed model file")

// LoadMesh parses an OBJ file, fills in missing normals and computes tangents.
func LoadMesh(path string, recalculateNormals bool) (*renderer.Mesh, error) {
	data, err := assets.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	mesh, err := ParseOBJ(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	if recalculateNormals || missingNormals(mesh) {
		RecalculateNormals(mesh)
	}
	ComputeTangents(mesh)

	lo, hi := mesh.Bounds()
	logger.Log.Info("Model loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.String("material", mesh.Material.Name),
		zap.Float32s("min", lo[:]),
		zap.Float32s("max", hi[:]))
	return mesh, nil
}

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32 // -1 when absent
	NormalIdx   int32 // -1 when absent
}

// ParseOBJ reads Wavefront OBJ geometry. Faces with more than three
// vertices are split into a fan and every distinct v/vt/vn triplet becomes
// one interleaved vertex. mtllib paths are resolved against baseDir.
func ParseOBJ(r io.Reader, baseDir string) (*renderer.Mesh, error) {
	var vertices []mgl32.Vec3
	var textureCoords []mgl32.Vec2
	var normals []mgl32.Vec3
	var materials map[string]*renderer.Material

	mesh := &renderer.Mesh{Material: renderer.DefaultMaterial()}
	vertexMap := make(map[FaceVertex]uint32)

	emit := func(fv FaceVertex) {
		if idx, ok := vertexMap[fv]; ok {
			mesh.Indices = append(mesh.Indices, idx)
			return
		}
		idx := uint32(mesh.VertexCount())
		vertexMap[fv] = idx

		p := vertices[fv.VertexIdx]
		var uv mgl32.Vec2
		if fv.TexCoordIdx >= 0 {
			uv = textureCoords[fv.TexCoordIdx]
		}
		var n mgl32.Vec3
		if fv.NormalIdx >= 0 {
			n = normals[fv.NormalIdx]
		}
		mesh.Data = append(mesh.Data, p[0], p[1], p[2], uv[0], uv[1], n[0], n[1], n[2], 0, 0, 0)
		mesh.Indices = append(mesh.Indices, idx)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		malformed := func(format string, args ...any) error {
			return fmt.Errorf("%w: line %d: %s", ErrMalformed, lineNo, fmt.Sprintf(format, args...))
		}

		switch parts[0] {
		case "v":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, malformed("vertex: %v", err)
			}
			vertices = append(vertices, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			vt, err := parseFloats(parts[1:], 1)
			if err != nil {
				return nil, malformed("texture coordinate: %v", err)
			}
			var v float32
			if len(vt) > 1 {
				v = vt[1]
			}
			textureCoords = append(textureCoords, mgl32.Vec2{vt[0], v})
		case "vn":
			vn, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, malformed("normal: %v", err)
			}
			normals = append(normals, mgl32.Vec3{vn[0], vn[1], vn[2]})
		case "f":
			if len(parts) < 4 {
				return nil, malformed("face needs at least 3 vertices, got %d", len(parts)-1)
			}
			face := make([]FaceVertex, 0, len(parts)-1)
			for _, part := range parts[1:] {
				fv, err := parseFaceVertex(part, len(vertices), len(textureCoords), len(normals))
				if err != nil {
					return nil, malformed("face: %v", err)
				}
				face = append(face, fv)
			}
			// Fan triangulation
			for i := 1; i+1 < len(face); i++ {
				emit(face[0])
				emit(face[i])
				emit(face[i+1])
			}
		case "mtllib":
			if len(parts) < 2 {
				return nil, malformed("mtllib without a file name")
			}
			materials = LoadMaterials(filepath.Join(baseDir, strings.Join(parts[1:], " ")))
		case "usemtl":
			if len(parts) < 2 {
				continue
			}
			if material, ok := materials[parts[1]]; ok {
				// Single material per mesh: the first one used wins.
				if mesh.Material.Name == "default" {
					mesh.Material = material
				}
			} else {
				logger.Log.Debug("Material not found", zap.String("material", parts[1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrMalformed)
	}

	logger.Log.Debug("Index unification applied",
		zap.Int("originalVertices", len(vertices)),
		zap.Int("unifiedVertices", mesh.VertexCount()),
		zap.Int("totalIndices", len(mesh.Indices)))
	return mesh, nil
}

func parseFloats(parts []string, minCount int) ([]float32, error) {
	if len(parts) < minCount {
		return nil, fmt.Errorf("expected %d values, got %d", minCount, len(parts))
	}
	values := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", part)
		}
		values = append(values, float32(val))
	}
	return values, nil
}

// parseFaceVertex handles v, v/vt, v//vn and v/vt/vn. Indices are 1 based;
// negative ones count back from the most recent element.
func parseFaceVertex(s string, nv, nvt, nvn int) (FaceVertex, error) {
	fields := strings.Split(s, "/")
	if len(fields) > 3 {
		return FaceVertex{}, fmt.Errorf("bad vertex %q", s)
	}
	fv := FaceVertex{TexCoordIdx: -1, NormalIdx: -1}
	var err error
	if fv.VertexIdx, err = resolveIndex(fields[0], nv); err != nil {
		return FaceVertex{}, err
	}
	if len(fields) > 1 && fields[1] != "" {
		if fv.TexCoordIdx, err = resolveIndex(fields[1], nvt); err != nil {
			return FaceVertex{}, err
		}
	}
	if len(fields) > 2 && fields[2] != "" {
		if fv.NormalIdx, err = resolveIndex(fields[2], nvn); err != nil {
			return FaceVertex{}, err
		}
	}
	return fv, nil
}

func resolveIndex(s string, count int) (int32, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	switch {
	case i > 0 && i <= count:
		return int32(i - 1), nil
	case i < 0 && -i <= count:
		return int32(count + i), nil
	default:
		return 0, fmt.Errorf("index %d out of range (have %d)", i, count)
	}
}

// LoadMaterials reads an MTL file. A missing or unreadable file yields a
// map holding only the default material.
func LoadMaterials(filename string) map[string]*renderer.Material {
	data, err := assets.ReadFile(filename)
	if err != nil {
		logger.Log.Warn("Error opening material file", zap.String("path", filename), zap.Error(err))
		return map[string]*renderer.Material{"default": renderer.DefaultMaterial()}
	}

	var currentMaterial *renderer.Material
	materials := make(map[string]*renderer.Material)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "newmtl" && currentMaterial == nil {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Log.Warn("Malformed material line", zap.String("line", line))
				continue
			}
			currentMaterial = renderer.DefaultMaterial()
			currentMaterial.Name = fields[1]
			materials[fields[1]] = currentMaterial
		case "Kd": // Diffuse color
			if len(fields) == 4 {
				currentMaterial.DiffuseColor = parseColor(fields[1:])
			}
		case "Ks": // Specular color
			if len(fields) == 4 {
				currentMaterial.SpecularColor = parseColor(fields[1:])
			}
		case "Ns": // Shininess
			if len(fields) == 2 {
				currentMaterial.Shininess = parseFloat(fields[1])
			}
		case "map_Kd": // Diffuse texture map
			if len(fields) < 2 {
				continue
			}
			texturePath := fields[len(fields)-1]
			if !filepath.IsAbs(texturePath) {
				texturePath = filepath.Join(filepath.Dir(filename), texturePath)
			}
			currentMaterial.TexturePath = texturePath
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Log.Warn("Error reading material file", zap.String("path", filename), zap.Error(err))
	}
	return materials
}

func parseColor(fields []string) mgl32.Vec3 {
	var color mgl32.Vec3
	for i, field := range fields {
		color[i] = parseFloat(field)
	}
	return color
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		logger.Log.Warn("Error parsing material value", zap.String("value", s), zap.Error(err))
		return 0
	}
	return float32(f)
}
