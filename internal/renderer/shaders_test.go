package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShaderReadSourcesFromDisk(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "a.vert")
	frag := filepath.Join(dir, "a.frag")
	if err := os.WriteFile(vert, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(frag, []byte("void main() { }"), 0o644); err != nil {
		t.Fatal(err)
	}

	shader := &Shader{Name: "test", VertexPath: vert, FragmentPath: frag}
	if err := shader.readSources(); err != nil {
		t.Fatalf("readSources failed: %v", err)
	}

	if !strings.HasSuffix(shader.vertexSource, "\x00") || !strings.HasSuffix(shader.fragmentSource, "\x00") {
		t.Error("Sources should be NUL terminated")
	}
}

func TestShaderReadSourcesEmbeddedFallback(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shaders")
	shader := &Shader{
		Name:         "main",
		VertexPath:   filepath.Join(dir, "player.vert"),
		FragmentPath: filepath.Join(dir, "player.frag"),
	}
	if err := shader.readSources(); err != nil {
		t.Fatalf("Expected embedded fallback, got %v", err)
	}
	if !strings.Contains(shader.fragmentSource, "spotLight") {
		t.Error("Embedded fragment shader should declare the spot light")
	}
}

func TestShaderReadSourcesMissing(t *testing.T) {
	shader := &Shader{Name: "x", VertexPath: filepath.Join(t.TempDir(), "x", "none.vert")}
	if err := shader.readSources(); err == nil {
		t.Error("Expected error for missing vertex shader")
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	once := terminate("src")
	if terminate(once) != once {
		t.Error("terminate should not append a second NUL")
	}
}

func TestShaderUses(t *testing.T) {
	shader := &Shader{VertexPath: "a.vert", FragmentPath: "a.frag"}
	if !shader.Uses("a.vert") || !shader.Uses("a.frag") {
		t.Error("Shader should report its own stage files")
	}
	if shader.Uses("b.frag") || shader.Uses("") {
		t.Error("Shader should not claim unrelated paths")
	}
}
