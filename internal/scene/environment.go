// Package scene owns everything the demo draws and routes input to it.
package scene

import (
	"Aviary/internal/behaviour"
	"Aviary/internal/config"
	"Aviary/internal/loader"
	"Aviary/internal/logger"
	"Aviary/internal/renderer"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type CameraMode int

const (
	ThirdPerson CameraMode = iota
	FirstPerson
	TopDown
)

func (m CameraMode) String() string {
	switch m {
	case ThirdPerson:
		return "third-person"
	case FirstPerson:
		return "first-person"
	case TopDown:
		return "top-down"
	default:
		return fmt.Sprintf("CameraMode(%d)", int(m))
	}
}

type Environment struct {
	Player    *renderer.Player
	Models    []*renderer.Model // Everything drawn besides the player
	Seabed    *renderer.Model
	Skybox    *renderer.Skybox
	DirLight  *renderer.DirectionalLight
	SpotLight *renderer.SpotLight

	cameras        [3]*renderer.Camera
	active         CameraMode
	followDistance float32
	mouseLook      bool
	closeRequested bool

	mainShader   *renderer.Shader
	skyboxShader *renderer.Shader
	textures     *renderer.TextureManager
	behaviours   *behaviour.BehaviourManager
	render       renderer.Render
	cleanup      renderer.Unwind
}

// New builds the scene described by cfg. It needs a current GL context.
// On failure everything created so far is released again.
func New(cfg config.Config, render renderer.Render, aspect float32) (env *Environment, err error) {
	var undo renderer.Unwind
	defer func() {
		if err != nil {
			undo.Unwind()
		}
	}()

	mainShader, err := renderer.LoadShader("main", cfg.Shaders.Main.Vertex, cfg.Shaders.Main.Fragment)
	if err != nil {
		return nil, err
	}
	undo.Add(mainShader.Delete)

	skyboxShader, err := renderer.LoadShader("skybox", cfg.Shaders.Skybox.Vertex, cfg.Shaders.Skybox.Fragment)
	if err != nil {
		return nil, err
	}
	undo.Add(skyboxShader.Delete)

	textures := renderer.NewTextureManager()
	undo.Add(textures.Clear)

	playerModel, err := newModel(cfg.Player.Model)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	player := renderer.NewPlayer(playerModel, cfg.Player.Speed, cfg.Player.TurnSpeed)

	env = newEnvironment(cfg, player, aspect)
	env.mainShader = mainShader
	env.skyboxShader = skyboxShader
	env.textures = textures
	env.render = render

	env.bindTextures(player.Model, cfg.Player.Textures)
	env.addModel(player.Model, &undo)

	for _, mc := range cfg.Models {
		model, err := newModel(mc)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", mc.Name, err)
		}
		env.bindTextures(model, mc.Textures)
		env.addModel(model, &undo)
		env.Models = append(env.Models, model)
		env.attachBehaviours(model, mc.Behaviours)
	}

	if cfg.Seabed.Enabled {
		sb := cfg.Seabed
		mesh, err := loader.GenerateSeabed(sb.Size, sb.Resolution, sb.Amplitude, sb.Frequency, sb.Seed)
		if err != nil {
			return nil, fmt.Errorf("seabed: %w", err)
		}
		env.Seabed = renderer.NewModel("seabed", mesh, mgl32.Vec3{0, sb.Depth, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{})
		var seabedTextures []config.Texture
		if sb.Texture != "" {
			seabedTextures = []config.Texture{{Path: sb.Texture, Uniform: renderer.DiffuseUniform}}
		}
		env.bindTextures(env.Seabed, seabedTextures)
		env.addModel(env.Seabed, &undo)
		env.Models = append(env.Models, env.Seabed)
	}

	env.Skybox = renderer.NewSkybox(cfg.Skybox.Faces(), mgl32.Vec3(cfg.Skybox.Color))
	undo.Add(env.Skybox.Cleanup)
	undo.Add(env.behaviours.Clear)

	textures.LogStats()
	env.logStatus()

	env.cleanup = append(renderer.Unwind(nil), undo...)
	undo.Discard()
	return env, nil
}

// newEnvironment sets up the lights and cameras around player. It makes
// no GL calls.
func newEnvironment(cfg config.Config, player *renderer.Player, aspect float32) *Environment {
	dl := cfg.Lights.Directional
	dirLight := renderer.NewDirectionalLight(dl.AmbientStrength, dl.SpecStrength, dl.SpecPhong,
		mgl32.Vec3(dl.Color), dl.Intensity, mgl32.Vec3(dl.Direction))
	dirLight.AmbientColor = mgl32.Vec3(dl.AmbientColor)

	sl := cfg.Lights.Spot
	spotLight := renderer.NewSpotLight(sl.AmbientStrength, sl.SpecStrength, sl.SpecPhong,
		mgl32.Vec3(sl.Color), sl.Intensity, player.Position, player.Direction(), sl.Cutoff)
	spotLight.AmbientColor = mgl32.Vec3(sl.AmbientColor)
	spotLight.Constant = sl.Constant
	spotLight.Linear = sl.Linear
	spotLight.Quadratic = sl.Quadratic
	spotLight.Enabled = sl.Enabled

	cam := cfg.Cameras
	third := renderer.NewPerspectiveCamera(ThirdPerson.String(), player.Position, player.Position, renderer.WorldUp,
		cam.Fov, aspect, cam.Near, cam.Far)
	third.Sensitivity = cam.MouseSensitivity
	first := renderer.NewPerspectiveCamera(FirstPerson.String(), player.Position, player.Position.Add(player.Direction()), renderer.WorldUp,
		cam.Fov, aspect, cam.Near, cam.Far)
	ortho := renderer.NewOrthoCamera(TopDown.String(), mgl32.Vec3(cam.Ortho.Position), mgl32.Vec3(cam.Ortho.Target), renderer.WorldUp,
		cam.Ortho.HalfExtent, aspect, cam.Ortho.Near, cam.Ortho.Far)

	env := &Environment{
		Player:         player,
		DirLight:       dirLight,
		SpotLight:      spotLight,
		cameras:        [3]*renderer.Camera{third, first, ortho},
		active:         ThirdPerson,
		followDistance: cam.FollowDistance,
		mouseLook:      cam.MouseLook,
		behaviours:     behaviour.NewBehaviourManager(),
	}
	env.updateRig()
	return env
}

func newModel(mc config.Model) (*renderer.Model, error) {
	mesh, err := loader.LoadMesh(mc.Path, mc.RecalculateNormals)
	if err != nil {
		return nil, err
	}
	name := mc.Name
	if name == "" {
		name = mc.Path
	}
	return renderer.NewModel(name, mesh, mgl32.Vec3(mc.Position), mgl32.Vec3(mc.Scale), mgl32.Vec3(mc.Rotation)), nil
}

// bindTextures loads the configured textures. Without an explicit diffuse
// texture the material's map_Kd is used, or plain white.
func (e *Environment) bindTextures(model *renderer.Model, textures []config.Texture) {
	paths := make([]string, len(textures))
	for i, t := range textures {
		paths[i] = t.Path
	}
	ids := e.textures.LoadTextures(paths)
	for i, t := range textures {
		bindTexture(model, e.textures, t.Uniform, ids[i])
	}

	if _, ok := model.Texture(renderer.DiffuseUniform); ok {
		return
	}
	var id uint32
	if model.Material != nil && model.Material.TexturePath != "" {
		id = e.textures.LoadTextureOrFallback(model.Material.TexturePath)
	} else {
		id = e.textures.White()
	}
	bindTexture(model, e.textures, renderer.DiffuseUniform, id)
}

type textureReleaser interface {
	ReleaseTexture(textureID uint32)
}

// bindTexture binds id to uniform and drops the reference held by the
// texture it replaces.
func bindTexture(model *renderer.Model, textures textureReleaser, uniform string, id uint32) {
	if previous, replaced := model.BindTexture(uniform, id); replaced {
		textures.ReleaseTexture(previous)
	}
}

func (e *Environment) addModel(model *renderer.Model, undo *renderer.Unwind) {
	e.render.AddModel(model)
	undo.Add(func() {
		e.render.RemoveModel(model)
		model.Delete()
		for _, t := range model.Textures {
			e.textures.ReleaseTexture(t.TextureID)
		}
	})
}

func (e *Environment) attachBehaviours(model *renderer.Model, names []string) {
	for _, name := range names {
		b := behaviour.Create(name)
		if b == nil {
			logger.Log.Warn("Unknown behaviour",
				zap.String("behaviour", name),
				zap.String("model", model.Name),
				zap.Strings("available", behaviour.Available()))
			continue
		}
		e.behaviours.Add(b, model)
	}
}

func (e *Environment) logStatus() {
	fields := []zap.Field{
		zap.Float32("depth", e.Player.Y()),
		zap.Float32s("position", e.Player.Position[:]),
		zap.Int("models", len(e.Models)+1),
		zap.Stringer("camera", e.active),
	}
	if e.Seabed != nil {
		if h, ok := renderer.HeightAbove(e.Player.Position, e.Seabed); ok {
			fields = append(fields, zap.Float32("aboveSeabed", h))
		}
	}
	logger.Log.Info("Submarine ready", fields...)
}

func (e *Environment) ActiveCamera() *renderer.Camera {
	return e.cameras[e.active]
}

func (e *Environment) ActiveMode() CameraMode {
	return e.active
}

func (e *Environment) Camera(mode CameraMode) *renderer.Camera {
	return e.cameras[mode]
}

// CloseRequested reports whether Escape was pressed.
func (e *Environment) CloseRequested() bool {
	return e.closeRequested
}

// updateRig moves the follow cameras and the spot light to the player.
func (e *Environment) updateRig() {
	pos := e.Player.Position
	dir := e.Player.Direction()

	third := e.cameras[ThirdPerson]
	orbit := third.OrbitOffset(dir)
	third.UpdateFields(pos.Sub(orbit.Mul(e.followDistance)), pos)

	e.cameras[FirstPerson].UpdateFields(pos, pos.Add(dir.Mul(e.followDistance)))

	e.SpotLight.UpdateFields(pos, dir)
}

// Update advances behaviours, pushes camera and light uniforms and draws
// the frame.
func (e *Environment) Update(dt float32) {
	e.updateRig()
	cam := e.ActiveCamera()

	e.mainShader.Use()
	cam.Apply(e.mainShader)
	e.SpotLight.Apply(e.mainShader)
	e.DirLight.Apply(e.mainShader)

	e.behaviours.UpdateAll(dt)
	e.render.DrawModels(e.mainShader)

	// The cube map only reads right under a perspective projection.
	if e.Skybox != nil && cam.IsPerspective() {
		e.Skybox.Draw(e.skyboxShader, cam.GetViewMatrix(), cam.GetProjectionMatrix())
	}
}

// HandleKey routes one key event.
func (e *Environment) HandleKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	pressed := action == glfw.Press

	switch key {
	case glfw.KeyEscape:
		if pressed {
			e.closeRequested = true
		}
	case glfw.KeySpace:
		if pressed {
			e.SpotLight.Toggle()
		}
	case glfw.KeyUp, glfw.KeyDown, glfw.KeyLeft, glfw.KeyRight:
		e.SpotLight.ProcessKeyboard(key)
	case glfw.Key1:
		if !pressed {
			return
		}
		if e.active == ThirdPerson {
			e.setCamera(FirstPerson)
		} else {
			e.setCamera(ThirdPerson)
		}
	case glfw.Key2:
		if pressed {
			e.setCamera(TopDown)
		}
	default:
		if e.ActiveCamera().IsPerspective() {
			e.Player.ProcessKeyboard(key)
		}
	}
}

func (e *Environment) setCamera(mode CameraMode) {
	if e.active == mode {
		return
	}
	e.active = mode
	e.cameras[ThirdPerson].ResetMouse()
	logger.Log.Info("Camera switched", zap.Stringer("camera", mode))
}

// HandleCursor orbits the third person camera around the player.
func (e *Environment) HandleCursor(x, y float64) {
	if !e.mouseLook || e.active != ThirdPerson {
		return
	}
	e.cameras[ThirdPerson].ProcessMouse(x, y)
}

// Resize updates every camera to a new framebuffer size.
func (e *Environment) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	for _, c := range e.cameras {
		c.SetAspectRatio(aspect)
	}
	if e.render != nil {
		e.render.UpdateViewport(int32(width), int32(height))
	}
}

// ShaderPaths lists the files the scene's shaders were built from.
func (e *Environment) ShaderPaths() []string {
	var paths []string
	for _, s := range []*renderer.Shader{e.mainShader, e.skyboxShader} {
		if s != nil {
			paths = append(paths, s.VertexPath, s.FragmentPath)
		}
	}
	return paths
}

// ReloadShaders recompiles the shaders that use path. A failed reload
// keeps the previous program.
func (e *Environment) ReloadShaders(path string) {
	for _, s := range []*renderer.Shader{e.mainShader, e.skyboxShader} {
		if s == nil || !s.Uses(path) {
			continue
		}
		if err := s.Reload(); err != nil {
			logger.Log.Warn("Shader reload failed, keeping previous program",
				zap.String("shader", s.Name),
				zap.String("path", path),
				zap.Error(err))
		}
	}
}

// Close releases every GPU resource the environment created.
func (e *Environment) Close() {
	e.cleanup.Unwind()
	if e.textures != nil {
		e.textures.LogStats()
	}
	logger.Log.Info("Environment closed")
}
