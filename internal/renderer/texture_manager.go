package renderer

import (
	"Aviary/assets"
	"Aviary/internal/logger"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"runtime"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/dustin/go-humanize"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Cache keys of the generated textures.
const (
	CheckerboardName = "builtin:checkerboard"
	WhiteName        = "builtin:white"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	Fallbacks      int
	ActiveTextures int
	TotalBytes     uint64
}

// TextureManager manages texture loading, caching, and lifecycle
type TextureManager struct {
	textureCache    map[string]uint32 // path -> OpenGL texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	texturePaths    map[uint32]string // texture ID -> path (for debugging)
	textureBytes    map[uint32]uint64
	mu              sync.RWMutex
	stats           TextureStats

	upload func(*image.RGBA) uint32
	free   func(uint32)
}

// NewTextureManager creates a texture manager that uploads to the current GL context.
func NewTextureManager() *TextureManager {
	return newTextureManager(uploadTexture2D, deleteTexture)
}

func newTextureManager(upload func(*image.RGBA) uint32, free func(uint32)) *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
		textureBytes:    make(map[uint32]uint64),
		upload:          upload,
		free:            free,
	}
}

// DecodeImage reads an image file and flips it vertically so row 0 is the
// bottom row, as GL expects.
func DecodeImage(path string) (*image.RGBA, error) {
	return decodeRGBA(path, true)
}

func decodeRGBA(path string, flip bool) (*image.RGBA, error) {
	data, err := assets.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Log.Debug("Image decoded",
		zap.String("path", path),
		zap.String("format", format),
		zap.String("size", humanize.Bytes(uint64(len(data)))))
	if flip {
		return transform.FlipV(img), nil
	}
	return clone.AsRGBA(img), nil
}

// DecodeImages decodes paths concurrently. Empty paths and failures leave
// a nil entry; failures are joined into the returned error.
func DecodeImages(paths []string, flip bool) ([]*image.RGBA, error) {
	images := make([]*image.RGBA, len(paths))
	errs := make([]error, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		if p == "" {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			images[i], errs[i] = decodeRGBA(p, flip)
			return nil
		})
	}
	_ = g.Wait()
	return images, errors.Join(errs...)
}

// Checkerboard builds a size x size image of cells x cells alternating squares.
func Checkerboard(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

// LoadTexture loads a texture from file or returns cached texture ID
// Automatically increments reference count
func (tm *TextureManager) LoadTexture(filePath string) (uint32, error) {
	if id, ok := tm.cached(filePath); ok {
		return id, nil
	}
	rgba, err := DecodeImage(filePath)
	if err != nil {
		return 0, err
	}
	return tm.CreateTextureFromImage(rgba, filePath), nil
}

// LoadTextureOrFallback is LoadTexture with the checkerboard standing in
// for files that cannot be read or decoded.
func (tm *TextureManager) LoadTextureOrFallback(filePath string) uint32 {
	id, err := tm.LoadTexture(filePath)
	if err == nil {
		return id
	}
	logger.Log.Warn("Texture unavailable, using checkerboard", zap.String("path", filePath), zap.Error(err))
	tm.mu.Lock()
	tm.stats.Fallbacks++
	tm.mu.Unlock()
	return tm.Fallback()
}

// LoadTextures resolves many paths at once: uncached files are decoded
// concurrently, then uploaded one by one on the calling thread.
func (tm *TextureManager) LoadTextures(paths []string) []uint32 {
	ids := make([]uint32, len(paths))
	missing := make([]string, len(paths))
	for i, p := range paths {
		if id, ok := tm.cached(p); ok {
			ids[i] = id
			continue
		}
		missing[i] = p
	}

	images, err := DecodeImages(missing, true)
	if err != nil {
		logger.Log.Warn("Some textures failed to decode", zap.Error(err))
	}
	for i, img := range images {
		if missing[i] == "" {
			continue
		}
		if img == nil {
			tm.mu.Lock()
			tm.stats.Fallbacks++
			tm.mu.Unlock()
			ids[i] = tm.Fallback()
			continue
		}
		// Another entry of paths may have uploaded the same file already.
		if id, ok := tm.cached(missing[i]); ok {
			ids[i] = id
			continue
		}
		ids[i] = tm.CreateTextureFromImage(img, missing[i])
	}
	return ids
}

// Fallback returns the shared checkerboard texture, adding a reference.
func (tm *TextureManager) Fallback() uint32 {
	if id, ok := tm.cached(CheckerboardName); ok {
		return id
	}
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	return tm.CreateTextureFromImage(Checkerboard(64, 8, magenta, black), CheckerboardName)
}

// White returns a shared 1x1 white texture for models without a diffuse
// map, so the material color shows through unchanged.
func (tm *TextureManager) White() uint32 {
	if id, ok := tm.cached(WhiteName); ok {
		return id
	}
	return tm.CreateTextureFromImage(solidImage(1, 1, mgl32.Vec3{1, 1, 1}), WhiteName)
}

func (tm *TextureManager) cached(name string) (uint32, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	textureID, exists := tm.textureCache[name]
	if !exists {
		return 0, false
	}
	tm.textureRefCount[textureID]++
	tm.stats.CacheHits++

	logger.Log.Debug("Texture cache hit",
		zap.String("path", name),
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", tm.textureRefCount[textureID]))
	return textureID, true
}

// CreateTextureFromImage uploads rgba and caches it under name with a
// reference count of one.
func (tm *TextureManager) CreateTextureFromImage(rgba *image.RGBA, name string) uint32 {
	textureID := tm.upload(rgba)
	size := uint64(len(rgba.Pix))

	tm.mu.Lock()
	tm.textureCache[name] = textureID
	tm.textureRefCount[textureID] = 1
	tm.texturePaths[textureID] = name
	tm.textureBytes[textureID] = size
	tm.stats.TotalTextures++
	tm.stats.CacheMisses++
	tm.stats.TotalBytes += size
	tm.mu.Unlock()

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", name),
		zap.Uint32("textureID", textureID),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()),
		zap.String("gpuSize", humanize.Bytes(size)))
	return textureID
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount
	if refCount > 0 {
		return
	}

	tm.free(textureID)
	path := tm.texturePaths[textureID]
	tm.stats.TotalBytes -= tm.textureBytes[textureID]
	delete(tm.textureCache, path)
	delete(tm.textureRefCount, textureID)
	delete(tm.texturePaths, textureID)
	delete(tm.textureBytes, textureID)

	logger.Log.Debug("Texture freed",
		zap.Uint32("textureID", textureID),
		zap.String("path", path))
}

// RefCount reports the live references of textureID, zero once freed.
func (tm *TextureManager) RefCount(textureID uint32) int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.textureRefCount[textureID]
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Int("fallbacks", stats.Fallbacks),
		zap.String("gpuMemory", humanize.Bytes(stats.TotalBytes)))
}

// Clear frees every texture regardless of references.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		tm.free(textureID)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	tm.textureBytes = make(map[uint32]uint64)
	tm.stats.TotalBytes = 0

	logger.Log.Info("Texture manager cleared")
}

func uploadTexture2D(rgba *image.RGBA) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return textureID
}

func deleteTexture(textureID uint32) {
	gl.DeleteTextures(1, &textureID)
}
