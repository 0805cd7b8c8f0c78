package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type fakeGPU struct {
	next  uint32
	freed []uint32
}

func (f *fakeGPU) upload(*image.RGBA) uint32 {
	f.next++
	return f.next
}

func (f *fakeGPU) free(id uint32) {
	f.freed = append(f.freed, id)
}

func newFakeManager() (*TextureManager, *fakeGPU) {
	gpu := &fakeGPU{}
	return newTextureManager(gpu.upload, gpu.free), gpu
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// writeStripes writes a 2x2 PNG whose top row is red and bottom row blue.
func writeStripes(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDecodeImageFlipsVertically(t *testing.T) {
	p := writeStripes(t, t.TempDir(), "stripes.png")

	img, err := DecodeImage(p)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != blue {
		t.Errorf("Expected first row blue after flip, got %v", got)
	}
	if got := img.RGBAAt(1, 1); got != red {
		t.Errorf("Expected last row red after flip, got %v", got)
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(p, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(p); err == nil {
		t.Error("Expected an error for garbage input")
	}
}

func TestDecodeImagesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeStripes(t, dir, "a.png")
	b := writeStripes(t, dir, "b.png")
	missing := filepath.Join(dir, "missing.png")

	images, err := DecodeImages([]string{a, "", missing, b}, true)
	if err == nil {
		t.Error("Expected an error for the missing file")
	}
	if len(images) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(images))
	}
	if images[0] == nil || images[3] == nil {
		t.Error("Decoded images should land at their input index")
	}
	if images[1] != nil || images[2] != nil {
		t.Error("Empty and missing paths should leave nil entries")
	}
}

func TestCheckerboard(t *testing.T) {
	img := Checkerboard(8, 2, red, blue)

	if img.Rect.Dx() != 8 || img.Rect.Dy() != 8 {
		t.Fatalf("Unexpected size %v", img.Rect)
	}
	if img.RGBAAt(0, 0) != red || img.RGBAAt(4, 0) != blue || img.RGBAAt(4, 4) != red {
		t.Error("Checkerboard cells should alternate")
	}
}

func TestTextureManagerCachesAndRefCounts(t *testing.T) {
	tm, gpu := newFakeManager()
	p := writeStripes(t, t.TempDir(), "bird.png")

	id1, err := tm.LoadTexture(p)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := tm.LoadTexture(p)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatal("Same path should return the cached texture")
	}
	if tm.RefCount(id1) != 2 {
		t.Errorf("Expected refcount 2, got %d", tm.RefCount(id1))
	}

	stats := tm.GetStats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.ActiveTextures != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.TotalBytes != 16 {
		t.Errorf("Expected 16 bytes for a 2x2 RGBA texture, got %d", stats.TotalBytes)
	}

	tm.ReleaseTexture(id1)
	if len(gpu.freed) != 0 {
		t.Fatal("Texture freed while still referenced")
	}
	tm.ReleaseTexture(id1)
	if len(gpu.freed) != 1 || gpu.freed[0] != id1 {
		t.Fatalf("Texture should be freed at zero references, freed=%v", gpu.freed)
	}
	if tm.GetStats().TotalBytes != 0 {
		t.Error("Freed texture bytes should be subtracted")
	}

	id3, _ := tm.LoadTexture(p)
	if id3 == id1 {
		t.Error("Reload after free should upload a new texture")
	}
}

func TestTextureManagerFallback(t *testing.T) {
	tm, _ := newFakeManager()
	missing := filepath.Join(t.TempDir(), "textures", "nope.png")

	if _, err := tm.LoadTexture(missing); err == nil {
		t.Fatal("Expected an error for a missing texture")
	}

	a := tm.LoadTextureOrFallback(missing)
	b := tm.LoadTextureOrFallback(missing)
	if a == 0 || a != b {
		t.Fatalf("Fallbacks should share one checkerboard texture, got %d and %d", a, b)
	}
	if tm.RefCount(a) != 2 {
		t.Errorf("Expected checkerboard refcount 2, got %d", tm.RefCount(a))
	}
	if tm.GetStats().Fallbacks != 2 {
		t.Errorf("Expected 2 fallbacks, got %d", tm.GetStats().Fallbacks)
	}
}

func TestTextureManagerLoadTextures(t *testing.T) {
	tm, _ := newFakeManager()
	dir := t.TempDir()
	a := writeStripes(t, dir, "a.png")
	b := writeStripes(t, dir, "b.png")

	ids := tm.LoadTextures([]string{a, b, a, filepath.Join(dir, "gone.png")})
	if len(ids) != 4 {
		t.Fatalf("Expected 4 ids, got %d", len(ids))
	}
	if ids[0] != ids[2] {
		t.Error("Duplicate paths should resolve to one texture")
	}
	if ids[0] == ids[1] {
		t.Error("Different files should get different textures")
	}
	if tm.RefCount(ids[0]) != 2 {
		t.Errorf("Expected refcount 2 for the duplicated path, got %d", tm.RefCount(ids[0]))
	}
	if ids[3] == 0 || ids[3] == ids[0] || ids[3] == ids[1] {
		t.Error("Missing file should map to the checkerboard")
	}
}

func TestTextureManagerClear(t *testing.T) {
	tm, gpu := newFakeManager()
	tm.Fallback()
	tm.CreateTextureFromImage(Checkerboard(2, 1, red, blue), "other")

	tm.Clear()
	if len(gpu.freed) != 2 {
		t.Errorf("Expected 2 textures freed, got %d", len(gpu.freed))
	}
	if tm.GetStats().ActiveTextures != 0 {
		t.Error("No textures should remain after Clear")
	}
}

func TestTextureManagerWhite(t *testing.T) {
	tm, _ := newFakeManager()

	a := tm.White()
	b := tm.White()
	if a != b {
		t.Error("White should be cached")
	}
	if a == tm.Fallback() {
		t.Error("White and checkerboard are different textures")
	}
}
