// Package config describes the scene file the demo is started with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

var ErrInvalid = errors.New("invalid scene config")

type Config struct {
	Window  Window  `yaml:"window"`
	Shaders Shaders `yaml:"shaders"`
	Player  Player  `yaml:"player"`
	Models  []Model `yaml:"models"`
	Seabed  Seabed  `yaml:"seabed"`
	Skybox  Skybox  `yaml:"skybox"`
	Lights  Lights  `yaml:"lights"`
	Cameras Cameras `yaml:"cameras"`
}

type Window struct {
	Title       string     `yaml:"title"`
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	X           int        `yaml:"x"`
	Y           int        `yaml:"y"`
	VSync       bool       `yaml:"vsync"`
	FaceCulling bool       `yaml:"face_culling"`
	ClearColor  [3]float32 `yaml:"clear_color"`
}

type ShaderPair struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

type Shaders struct {
	Main      ShaderPair `yaml:"main"`
	Skybox    ShaderPair `yaml:"skybox"`
	HotReload bool       `yaml:"hot_reload"`
}

// Texture binds an image file to a sampler uniform of the main shader.
type Texture struct {
	Path    string `yaml:"path"`
	Uniform string `yaml:"uniform"`
}

type Model struct {
	Name               string     `yaml:"name"`
	Path               string     `yaml:"path"`
	Position           [3]float32 `yaml:"position"`
	Scale              [3]float32 `yaml:"scale"`
	Rotation           [3]float32 `yaml:"rotation"` // Euler angles in degrees
	Textures           []Texture  `yaml:"textures"`
	RecalculateNormals bool       `yaml:"recalculate_normals"`
	Behaviours         []string   `yaml:"behaviours"`
}

type Player struct {
	Model     `yaml:",inline"`
	Speed     float32 `yaml:"speed"`
	TurnSpeed float32 `yaml:"turn_speed"` // degrees per key event
}

type Seabed struct {
	Enabled    bool    `yaml:"enabled"`
	Size       float32 `yaml:"size"`
	Resolution int     `yaml:"resolution"`
	Amplitude  float32 `yaml:"amplitude"`
	Frequency  float64 `yaml:"frequency"`
	Seed       int64   `yaml:"seed"`
	Depth      float32 `yaml:"depth"`
	Texture    string  `yaml:"texture"`
}

// Skybox faces are image paths; an empty face is filled with Color.
type Skybox struct {
	Right string     `yaml:"right"`
	Left  string     `yaml:"left"`
	Up    string     `yaml:"up"`
	Down  string     `yaml:"down"`
	Front string     `yaml:"front"`
	Back  string     `yaml:"back"`
	Color [3]float32 `yaml:"color"`
}

// Faces returns the face paths in cube map order.
func (s Skybox) Faces() [6]string {
	return [6]string{s.Right, s.Left, s.Up, s.Down, s.Front, s.Back}
}

type LightParams struct {
	AmbientStrength float32    `yaml:"ambient_strength"`
	AmbientColor    [3]float32 `yaml:"ambient_color"`
	SpecStrength    float32    `yaml:"spec_strength"`
	SpecPhong       float32    `yaml:"spec_phong"`
	Color           [3]float32 `yaml:"color"`
	Intensity       float32    `yaml:"intensity"`
}

type DirectionalLight struct {
	LightParams `yaml:",inline"`
	Direction   [3]float32 `yaml:"direction"`
}

type SpotLight struct {
	LightParams `yaml:",inline"`
	Cutoff      float32 `yaml:"cutoff"` // degrees
	Constant    float32 `yaml:"constant"`
	Linear      float32 `yaml:"linear"`
	Quadratic   float32 `yaml:"quadratic"`
	Enabled     bool    `yaml:"enabled"`
}

type Lights struct {
	Directional DirectionalLight `yaml:"directional"`
	Spot        SpotLight        `yaml:"spot"`
}

type Ortho struct {
	Position   [3]float32 `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
	HalfExtent float32    `yaml:"half_extent"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

type Cameras struct {
	FollowDistance   float32 `yaml:"follow_distance"`
	Fov              float32 `yaml:"fov"`
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	MouseLook        bool    `yaml:"mouse_look"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	Ortho            Ortho   `yaml:"ortho"`
}

// Default is the scene the demo shows when no file overrides it.
func Default() Config {
	white := [3]float32{1, 1, 1}
	return Config{
		Window: Window{
			Title:       "Aviary",
			Width:       600,
			Height:      600,
			X:           100,
			Y:           100,
			VSync:       true,
			FaceCulling: true,
			ClearColor:  [3]float32{0, 0, 0},
		},
		Shaders: Shaders{
			Main:      ShaderPair{Vertex: "shaders/player.vert", Fragment: "shaders/player.frag"},
			Skybox:    ShaderPair{Vertex: "shaders/skybox.vert", Fragment: "shaders/skybox.frag"},
			HotReload: true,
		},
		Player: Player{
			Model: Model{
				Name:  "player",
				Path:  "models/bird.obj",
				Scale: [3]float32{0.2, 0.2, 0.2},
				Textures: []Texture{
					{Path: "textures/bird.png", Uniform: "tex0"},
					{Path: "textures/bird_normal.png", Uniform: "norm_tex"},
				},
			},
			Speed:     0.1,
			TurnSpeed: 3,
		},
		Models: []Model{{
			Name:       "companion",
			Path:       "models/bird.obj",
			Position:   [3]float32{1, 0, 0},
			Scale:      [3]float32{0.2, 0.2, 0.2},
			Textures:   []Texture{{Path: "textures/companion.png", Uniform: "tex0"}},
			Behaviours: []string{"bob"},
		}},
		Seabed: Seabed{
			Enabled:    true,
			Size:       40,
			Resolution: 64,
			Amplitude:  1.5,
			Frequency:  0.15,
			Seed:       7,
			Depth:      -3,
			Texture:    "textures/sand.png",
		},
		Skybox: Skybox{
			Right: "textures/sky_right.png",
			Left:  "textures/sky_left.png",
			Up:    "textures/sky_up.png",
			Down:  "textures/sky_down.png",
			Front: "textures/sky_front.png",
			Back:  "textures/sky_back.png",
			Color: [3]float32{0.05, 0.2, 0.35},
		},
		Lights: Lights{
			Directional: DirectionalLight{
				LightParams: LightParams{AmbientStrength: 0.5, AmbientColor: white, SpecStrength: 1, SpecPhong: 16, Color: white, Intensity: 1},
				Direction:   [3]float32{0, -1, 0},
			},
			Spot: SpotLight{
				LightParams: LightParams{AmbientStrength: 0.5, AmbientColor: white, SpecStrength: 1, SpecPhong: 16, Color: white, Intensity: 1},
				Cutoff:      12.5,
				Constant:    1,
				Linear:      0.09,
				Quadratic:   0.032,
				Enabled:     true,
			},
		},
		Cameras: Cameras{
			FollowDistance:   5,
			Fov:              60,
			Near:             0.1,
			Far:              100,
			MouseLook:        true,
			MouseSensitivity: 0.1,
			Ortho: Ortho{
				Position:   [3]float32{0, 10, 1},
				HalfExtent: 5,
				Near:       0.1,
				Far:        100,
			},
		},
	}
}

// Load reads a scene file on top of Default. Relative asset paths are
// resolved against the directory holding the file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scene config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scene config %s: %w", path, err)
	}
	cfg.ResolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ResolvePaths makes every relative asset path relative to base.
func (c *Config) ResolvePaths(base string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	resolve(&c.Shaders.Main.Vertex)
	resolve(&c.Shaders.Main.Fragment)
	resolve(&c.Shaders.Skybox.Vertex)
	resolve(&c.Shaders.Skybox.Fragment)
	resolveModel := func(m *Model) {
		resolve(&m.Path)
		for i := range m.Textures {
			resolve(&m.Textures[i].Path)
		}
	}
	resolveModel(&c.Player.Model)
	for i := range c.Models {
		resolveModel(&c.Models[i])
	}
	resolve(&c.Seabed.Texture)
	resolve(&c.Skybox.Right)
	resolve(&c.Skybox.Left)
	resolve(&c.Skybox.Up)
	resolve(&c.Skybox.Down)
	resolve(&c.Skybox.Front)
	resolve(&c.Skybox.Back)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports every problem found, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	errs = append(errs, validateModel("player", c.Player.Model)...)
	if c.Player.Speed <= 0 {
		errs = append(errs, invalid("player speed must be positive"))
	}
	for i, m := range c.Models {
		errs = append(errs, validateModel(fmt.Sprintf("models[%d]", i), m)...)
	}
	if c.Seabed.Enabled {
		if c.Seabed.Resolution < 2 {
			errs = append(errs, invalid("seabed resolution must be at least 2"))
		}
		if c.Seabed.Size <= 0 {
			errs = append(errs, invalid("seabed size must be positive"))
		}
	}
	cam := c.Cameras
	if cam.FollowDistance <= 0 {
		errs = append(errs, invalid("camera follow distance must be positive"))
	}
	if cam.Fov <= 0 || cam.Fov >= 180 {
		errs = append(errs, invalid("camera fov %.1f out of range (0, 180)", cam.Fov))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, invalid("camera clip planes near=%g far=%g", cam.Near, cam.Far))
	}
	if cam.Ortho.HalfExtent <= 0 {
		errs = append(errs, invalid("ortho half extent must be positive"))
	}
	if cam.Ortho.Far <= cam.Ortho.Near {
		errs = append(errs, invalid("ortho clip planes near=%g far=%g", cam.Ortho.Near, cam.Ortho.Far))
	}
	if c.Lights.Spot.Cutoff <= 0 || c.Lights.Spot.Cutoff >= 90 {
		errs = append(errs, invalid("spot cutoff %.1f out of range (0, 90)", c.Lights.Spot.Cutoff))
	}
	if d := c.Lights.Directional.Direction; d == [3]float32{} {
		errs = append(errs, invalid("directional light needs a direction"))
	}
	return errors.Join(errs...)
}

func validateModel(field string, m Model) []error {
	var errs []error
	if m.Path == "" {
		errs = append(errs, invalid("%s: path is required", field))
	}
	if m.Scale == [3]float32{} {
		errs = append(errs, invalid("%s: scale must not be zero", field))
	}
	for i, t := range m.Textures {
		if t.Uniform == "" {
			errs = append(errs, invalid("%s.textures[%d]: uniform is required", field, i))
		}
	}
	return errs
}

// Marshal renders the config back to YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
