// Package viewer runs the interactive land-cover viewer: it installs the
// effect on a terrain engine, uploads the result to the GPU and runs the
// render loop until the window closes.
package viewer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/config"
	"github.com/Faultbox/splatearth/internal/earthfile"
	"github.com/Faultbox/splatearth/internal/engine/camera"
	"github.com/Faultbox/splatearth/internal/engine/debug"
	"github.com/Faultbox/splatearth/internal/engine/gpu"
	"github.com/Faultbox/splatearth/internal/engine/input"
	"github.com/Faultbox/splatearth/internal/engine/window"
	"github.com/Faultbox/splatearth/internal/logger"
)

// screenshotDir receives F12 captures.
const screenshotDir = "screenshots"

// Viewer is the main viewer instance.
type Viewer struct {
	running  bool
	title    string
	scene    *Scene
	window   *window.Window
	clock    *window.FrameClock
	renderer *gpu.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.ScreenshotCapture
}

// New creates the window and renderer, installs the land-cover effect for
// file and uploads the resulting state.
func New(cfg *config.Config, file *earthfile.File) (*Viewer, error) {
	title := "splatviewer"
	if file.Name != "" {
		title = fmt.Sprintf("splatviewer - %s", file.Name)
	}

	v := &Viewer{title: title}

	// Window first: the GL context must exist before the renderer.
	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.DrawableSize()
	v.renderer, err = gpu.New(gpu.Config{
		Width:       width,
		Height:      height,
		Multisample: cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.scene = NewScene(cfg, file)
	if err := v.renderer.Upload(v.scene.Engine.StateSet(), v.scene.Engine.Bins(), v.scene.Mesh); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to upload scene: %w", err)
	}

	v.input = input.New()
	v.shots = debug.NewScreenshotCapture(screenshotDir, "splatviewer")
	v.camera = camera.NewOrbitCamera(cfg.Graphics.EffectiveVFov())
	v.camera.FitToTile(file.Terrain.Size)

	logger.Info("viewer initialized", zap.Float32("vfov", v.camera.VFov))
	return v, nil
}

// Run starts the render loop and returns the exit code when it ends.
func (v *Viewer) Run() int {
	v.running = true
	v.clock = v.window.Clock()

	logger.Info("starting render loop")

	var dt float32
	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents(dt)

		v.renderer.Draw(gpu.Frame{
			ViewProj:  v.camera.ViewProjection(v.renderer.AspectRatio()),
			CameraPos: v.camera.Position(),
			Time:      v.clock.Seconds(),
		})
		v.window.SwapBuffers()

		var fpsUpdated bool
		dt, fpsUpdated = v.clock.Tick()
		if fpsUpdated {
			v.window.SetTitle(fmt.Sprintf("%s (%.0f fps)", v.title, v.clock.FPS()))
			logger.Debug("fps", zap.Float32("fps", v.clock.FPS()), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
		}
	}

	return 0
}

func (v *Viewer) handleEvents(dt float32) {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Event sizes are in window points; the viewport needs pixels.
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseDrag:
			v.camera.HandleDrag(event.DeltaX, event.DeltaY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DeltaY)
		case input.EventKeyDown:
			if event.Key == sdl.SCANCODE_F12 {
				v.screenshot()
			}
		}
	}

	var forward, right float32
	if v.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		// 60 frames' worth of movement per second
		v.camera.HandleMovement(forward*dt*60, right*dt*60)
	}
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close uninstalls the effect and releases GPU and window resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.scene != nil {
		v.scene.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
