package engine

import (
	"Aviary/internal/config"
	"Aviary/internal/logger"
	"Aviary/internal/renderer"
	"Aviary/internal/scene"
	"Aviary/internal/watcher"
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Gopher owns the window and drives the frame loop.
type Gopher struct {
	Width       int32
	Height      int32
	config      config.Config
	rendererAPI renderer.Render
	window      *glfw.Window
	env         *scene.Environment
}

func New(cfg config.Config) *Gopher {
	logger.Log.Info("Aviary initializing...")
	return &Gopher{
		config:      cfg,
		rendererAPI: &renderer.OpenGLRenderer{},
		Width:       int32(cfg.Window.Width),
		Height:      int32(cfg.Window.Height),
	}
}

func (gopher *Gopher) SetDebugMode(debug bool) {
	renderer.Debug = debug
}

func (gopher *Gopher) SetFaceCulling(enabled bool) {
	renderer.FaceCullingEnabled = enabled
}

// Run opens the window and renders until it is closed, Escape is pressed
// or ctx is cancelled. It must be called from the main goroutine.
func (gopher *Gopher) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win := gopher.config.Window
	window, err := glfw.CreateWindow(win.Width, win.Height, win.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	defer window.Destroy()
	gopher.window = window
	window.MakeContextCurrent()
	window.SetPos(win.X, win.Y)
	if win.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	renderer.ClearColor = mgl32.Vec3(win.ClearColor)
	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := gopher.rendererAPI.Init(int32(fbWidth), int32(fbHeight), window); err != nil {
		return err
	}
	defer gopher.rendererAPI.Cleanup()

	env, err := scene.New(gopher.config, gopher.rendererAPI, float32(fbWidth)/float32(max(fbHeight, 1)))
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer env.Close()
	gopher.env = env

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetKeyCallback(gopher.keyCallback)
	window.SetCursorPosCallback(gopher.mouseCallback)
	window.SetFramebufferSizeCallback(gopher.framebufferSizeCallback)

	var reloads <-chan string
	if gopher.config.Shaders.HotReload {
		reloads = gopher.watchShaders(ctx)
	}

	gopher.RenderLoop(ctx, reloads)
	return nil
}

func (gopher *Gopher) watchShaders(ctx context.Context) <-chan string {
	changes, err := watcher.Watch(ctx, gopher.env.ShaderPaths())
	if err != nil {
		logger.Log.Warn("Shader hot reload disabled", zap.Error(err))
		return nil
	}
	logger.Log.Info("Watching shaders for changes", zap.Strings("paths", gopher.env.ShaderPaths()))
	return changes
}

func (gopher *Gopher) RenderLoop(ctx context.Context, reloads <-chan string) {
	lastTime := glfw.GetTime()
	frames := 0

	for !gopher.window.ShouldClose() && !gopher.env.CloseRequested() {
		select {
		case <-ctx.Done():
			logger.Log.Info("Shutting down", zap.Error(ctx.Err()))
			return
		case path, ok := <-reloads:
			if ok {
				gopher.env.ReloadShaders(path)
			} else {
				reloads = nil
			}
		default:
		}

		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		gopher.rendererAPI.BeginFrame()
		gopher.env.Update(float32(deltaTime))

		gopher.window.SwapBuffers()
		glfw.PollEvents()
		frames++
	}
	logger.Log.Info("Window closed", zap.Int("frames", frames))
}

func (gopher *Gopher) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	gopher.env.HandleKey(key, action)
}

func (gopher *Gopher) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if w.GetAttrib(glfw.Focused) != glfw.True {
		return
	}
	gopher.env.HandleCursor(xpos, ypos)
}

func (gopher *Gopher) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	gopher.Width, gopher.Height = int32(width), int32(height)
	gopher.env.Resize(width, height)
}
