package gui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/transitviz/internal/audio"
	"github.com/san-kum/transitviz/internal/audio/device"
	"github.com/san-kum/transitviz/internal/viz"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(250, 128, 114, 255)
)

const (
	fontPath          = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	telemetryCapacity = 200
)

// Options configure the window.
type Options struct {
	Width, Height int32
	FPS           int32
	Title         string
	// ScreenshotDir receives PNGs taken with the S key.
	ScreenshotDir string
	HUD           bool
	Output        *device.Output
}

// App runs visualizations in a raylib window. The frames of a run are
// painted onto an off-screen texture, so frames that do not clear build on
// what was drawn before.
type App struct {
	opts     Options
	build    viz.Builder
	kinds    []viz.Kind
	Selected int
	InMenu   bool

	Kind    viz.Kind
	Vis     viz.Visualization
	Running bool
	Done    bool
	Err     error
	quit    bool

	Font      rl.Font
	TargetTex rl.RenderTexture2D
	Telemetry []float64
	meter     *audio.Meter
	bands     audio.Bands
	shots     int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 500
	}
	if o.Height <= 0 {
		o.Height = 500
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Title == "" {
		o.Title = "transitviz"
	}
	if o.ScreenshotDir == "" {
		o.ScreenshotDir = "."
	}
	return o
}

func initWindow(o Options) {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(o.Width, o.Height, o.Title)
	rl.SetTargetFPS(o.FPS)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp must be called after the window exists.
func NewApp(build viz.Builder, opts Options) *App {
	a := &App{
		opts:      opts,
		build:     build,
		kinds:     viz.Kinds(),
		Font:      loadFont(),
		TargetTex: rl.LoadRenderTexture(opts.Width, opts.Height),
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
	if opts.Output != nil && opts.Output.Active {
		a.meter = audio.NewMeter()
	}
	return a
}

// Run opens a window on the given kind and blocks until it closes.
func Run(kind viz.Kind, build viz.Builder, opts Options) error {
	opts = opts.withDefaults()
	initWindow(opts)
	defer rl.CloseWindow()

	a := NewApp(build, opts)
	defer a.Unload()
	a.load(kind)
	a.RunLoop()
	return a.Err
}

// RunInteractive starts on the kind picker.
func RunInteractive(build viz.Builder, opts Options) error {
	opts = opts.withDefaults()
	initWindow(opts)
	defer rl.CloseWindow()

	a := NewApp(build, opts)
	defer a.Unload()
	a.InMenu = true
	a.RunLoop()
	return a.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Unload() {
	rl.UnloadRenderTexture(a.TargetTex)
	if a.Font.Texture.ID != rl.GetFontDefault().Texture.ID {
		rl.UnloadFont(a.Font)
	}
}

func (a *App) load(kind viz.Kind) {
	vis, err := a.build(kind)
	if err != nil {
		slog.Error("visualization failed to start", "kind", kind.String(), "err", err)
		a.Err = err
		a.InMenu = true
		return
	}
	a.Kind, a.Vis = kind, vis
	a.InMenu = false
	a.Running, a.Done, a.Err = true, false, nil
	a.Telemetry = a.Telemetry[:0]

	rl.BeginTextureMode(a.TargetTex)
	rl.ClearBackground(ColBg)
	rl.EndTextureMode()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
			a.Selected = (a.Selected + 1) % len(a.kinds)
		}
		if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
			a.Selected = (a.Selected + len(a.kinds) - 1) % len(a.kinds)
		}
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
			a.load(a.kinds[a.Selected])
		}
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.load(a.Kind)
		return
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.opts.HUD = !a.opts.HUD
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.screenshot()
	}

	if a.meter != nil {
		a.bands = a.meter.Update(a.opts.Output.Synth.Snapshot(), a.opts.Output.Synth.SampleRate())
	}

	if !a.Running || a.Done {
		return
	}
	done, err := a.Vis.Tick()
	if err != nil {
		slog.Error("visualization tick failed", "kind", a.Kind.String(), "err", err)
		a.Err = err
		a.quit = true
		return
	}
	f := a.Vis.Frame()
	a.paint(f)
	if f.MetricName != "" && !f.Empty() {
		a.Telemetry = append(a.Telemetry, f.Metric)
		if len(a.Telemetry) > telemetryCapacity {
			a.Telemetry = a.Telemetry[1:]
		}
	}
	a.Done = done
	if done && a.Kind.QuitWhenDone() {
		a.quit = true
	}
}

func (a *App) screenshot() {
	if err := os.MkdirAll(a.opts.ScreenshotDir, 0755); err != nil {
		slog.Warn("screenshot dir", "dir", a.opts.ScreenshotDir, "err", err)
		return
	}
	name := filepath.Join(a.opts.ScreenshotDir, fmt.Sprintf("%s_%03d.png", a.Kind, a.shots))

	// render textures are stored bottom-up
	img := rl.LoadImageFromTexture(a.TargetTex.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, name) {
		slog.Warn("screenshot failed", "path", name)
		return
	}
	a.shots++
	slog.Info("screenshot saved", "path", name)
}

// paint draws f onto the off-screen texture.
func (a *App) paint(f viz.Frame) {
	rl.BeginTextureMode(a.TargetTex)
	defer rl.EndTextureMode()

	if f.Clear {
		rl.ClearBackground(toColor(f.Background))
	}
	w, h := float64(a.opts.Width), float64(a.opts.Height)

	for _, pl := range f.Polylines {
		for i := 1; i < len(pl.Points); i++ {
			rl.DrawLineEx(toScreen(pl.Points[i-1], w, h), toScreen(pl.Points[i], w, h), float32(pl.Weight), toColor(pl.Color))
		}
		// round joins
		for _, p := range pl.Points {
			rl.DrawCircleV(toScreen(p, w, h), float32(pl.Weight/2), toColor(pl.Color))
		}
	}
	for _, c := range f.Circles {
		center := toScreen(c.Vec, w, h)
		r := float32(c.Radius)
		if c.Filled {
			rl.DrawCircleV(center, r, toColor(c.Fill))
		}
		inner, outer := ringBounds(c.Radius, c.Weight)
		rl.DrawRing(center, inner, outer, 0, 360, 48, toColor(c.Stroke))
	}
	for _, d := range f.Dots {
		rl.DrawCircleV(toScreen(d.Vec, w, h), float32(d.Radius), toColor(d.Color))
	}
	for _, l := range f.Labels {
		size := float32(l.Size)
		measured := rl.MeasureTextEx(a.Font, l.Text, size, 1)
		pos := labelOrigin(l, float64(measured.X), w, h)
		rl.DrawTextEx(a.Font, l.Text, pos, size, 1, toColor(l.Color))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		src := rl.NewRectangle(0, 0, float32(a.TargetTex.Texture.Width), -float32(a.TargetTex.Texture.Height))
		rl.DrawTextureRec(a.TargetTex.Texture, src, rl.NewVector2(0, 0), rl.White)
		if a.opts.HUD {
			a.DrawHUD()
		}
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawHUD() {
	w, h := int(a.opts.Width), int(a.opts.Height)
	a.drawText(a.Kind.String(), 10, 10, 16, ColSelect)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Done:
		status, col = "DONE", ColAccent
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-80, 10, 14, col)

	f := a.Vis.Frame()
	if f.Total > 0 {
		a.drawText(fmt.Sprintf("%d/%d", f.Index+1, f.Total), 10, 30, 12, ColText)
	}
	a.DrawTelemetry(10, h-70, w/2, 40)

	if a.meter != nil {
		a.drawText(fmt.Sprintf("B %-10s", strings.Repeat("|", int(a.bands.Bass*10))), w-120, h-60, 12, ColText)
		a.drawText(fmt.Sprintf("M %-10s", strings.Repeat("|", int(a.bands.Mid*10))), w-120, h-45, 12, ColText)
		a.drawText(fmt.Sprintf("H %-10s", strings.Repeat("|", int(a.bands.High*10))), w-120, h-30, 12, ColText)
	}
	a.drawText("[SPC] PAUSE [R] RESTART [S] SHOT [H] HUD [Q] QUIT", 10, h-18, 10, ColTextDim)
}

// DrawTelemetry plots the per-frame metric as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int) {
	if len(a.Telemetry) < 2 {
		return
	}
	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(x) + float32(i)/float32(len(a.Telemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
}

func (a *App) drawMenu() {
	a.drawText("transitviz", 30, 30, 32, ColSelect)
	a.drawText("Select Visualization", 30, 70, 14, ColTextDim)

	y := 120
	for i, k := range a.kinds {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", k), 30, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", k), 30, y, 20, ColText)
		}
		y += 28
	}
	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, y+20, 12, ColAccent)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 30, int(a.opts.Height)-30, 12, ColTextDim)
}
