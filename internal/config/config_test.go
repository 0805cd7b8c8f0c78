package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeScene(t, `
window:
  width: 800
  title: Reef
  face_culling: false
player:
  path: models/fish.obj
  speed: 0.5
lights:
  spot:
    cutoff: 20
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	dir := filepath.Dir(p)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, "Reef", cfg.Window.Title)
	assert.False(t, cfg.Window.FaceCulling)
	assert.True(t, Default().Window.FaceCulling)
	assert.Equal(t, filepath.Join(dir, "models/fish.obj"), cfg.Player.Path)
	assert.Equal(t, float32(0.5), cfg.Player.Speed)
	assert.Equal(t, float32(20), cfg.Lights.Spot.Cutoff)
	assert.Equal(t, filepath.Join(dir, "shaders/player.vert"), cfg.Shaders.Main.Vertex)
}

func TestLoadKeepsAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "bird.obj")
	p := writeScene(t, "player:\n  path: "+abs+"\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Player.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadRejectsInvalid(t *testing.T) {
	p := writeScene(t, `
window:
  width: 0
cameras:
  fov: 200
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "fov")
}

func TestValidateTextureUniform(t *testing.T) {
	cfg := Default()
	cfg.Player.Textures = []Texture{{Path: "x.png"}}
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "uniform is required")
}

func TestValidateSeabedOnlyWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Seabed.Resolution = 1
	assert.Error(t, cfg.Validate())

	cfg.Seabed.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestSkyboxFacesOrder(t *testing.T) {
	s := Skybox{Right: "rt", Left: "lf", Up: "up", Down: "dn", Front: "ft", Back: "bk"}
	assert.Equal(t, [6]string{"rt", "lf", "up", "dn", "ft", "bk"}, s.Faces())
}

func TestMarshalRoundTripKeepsTitle(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Aviary")
}
