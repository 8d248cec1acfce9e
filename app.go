package avatar

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

// AppOptions overrides the collaborators NewApp would otherwise create.
type AppOptions struct {
	Clock  clock.Clock   // nil: wall clock
	Rand   RandSource    // nil: process-global source
	Loader ImageLoader   // nil: PNG files under Config.ModelDir
	Script *ScriptRunner // nil: no scripted input
}

// App wires the image store, texture cache, synthesizer, animation driver
// and presenter into an ebiten.Game.
type App struct {
	cfg       Config
	store     *ImageStore
	textures  *TextureCache[*ebiten.Image]
	synth     *Synthesizer
	driver    *Driver
	avatar    *Avatar
	presenter *Presenter
	input     *keyInput
	script    *ScriptRunner
	quit      bool
}

// NewApp builds the display from cfg. It fails when the default pose's
// neutral image is missing or a binding names an unknown key.
func NewApp(cfg Config, opts AppOptions) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	loader := opts.Loader
	if loader == nil {
		loader = NewDirLoader(cfg.ModelDir)
	}

	store := NewImageStore(loader)
	preload := make([]ImageKey, 0, cfg.Expressions)
	for e := 1; e <= cfg.Expressions; e++ {
		preload = append(preload, ImageKey{Pose: cfg.DefaultPose, Expression: ExpressionID(e)})
	}
	store.Preload(preload...)

	synth := NewSynthesizer(store, cfg.TransitionConfig())
	blink := NewBlinkScheduler(clk, opts.Rand, cfg.Timing.BlinkInterval, cfg.Timing.BlinkVariation)
	driver := NewDriver(synth, blink, clk, cfg.DriverConfig())
	av := NewAvatar(cfg, store, driver)
	if err := av.CheckFallback(); err != nil {
		return nil, err
	}
	if cfg.Transition.Prewarm {
		n := synth.Prewarm(cfg.PoseIDs())
		glog.Infof("avatar: prewarmed %d transitions", n)
	}

	input, err := newKeyInput(cfg, clk)
	if err != nil {
		return nil, err
	}

	textures := NewTextureCache[*ebiten.Image](store, EbitenTextures{})
	return &App{
		cfg:       cfg,
		store:     store,
		textures:  textures,
		synth:     synth,
		driver:    driver,
		avatar:    av,
		presenter: NewPresenter(cfg, av, textures, clk),
		input:     input,
		script:    opts.Script,
	}, nil
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.input.poll(a)
	if a.script != nil {
		a.script.Step(a)
	}
	if a.quit {
		return ebiten.Termination
	}
	a.avatar.Update()
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.presenter.Render()
	a.presenter.Draw(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(_, _ int) (int, int) {
	return a.presenter.Layout()
}

// PressBinding applies the named binding. It reports false for unknown names.
func (a *App) PressBinding(name string) bool {
	b, ok := a.cfg.Bindings[name]
	if !ok {
		return false
	}
	a.avatar.Press(name, b)
	return true
}

// ToggleFlip mirrors the avatar.
func (a *App) ToggleFlip() { a.avatar.ToggleFlip() }

// ToggleOutput closes or reopens the virtual-camera surface.
func (a *App) ToggleOutput() { a.presenter.ToggleOutput() }

// Screenshot queues a capture of the output surface.
func (a *App) Screenshot(label string) { a.presenter.Screenshot(label) }

// Quit stops the game loop after the current tick.
func (a *App) Quit() { a.quit = true }

// Avatar returns the avatar state.
func (a *App) Avatar() *Avatar { return a.avatar }

// Close releases every texture and surface.
func (a *App) Close() {
	a.presenter.Close()
	stats := a.textures.Stats()
	glog.Infof("avatar: texture cache hits %d, misses %d (%.1f%%)", stats.Hits, stats.Misses, hitRate(stats))
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
}

// Run opens the window and runs app until the user quits.
func Run(app *App, cfg RunConfig) error {
	w, h := app.presenter.Layout()
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetTPS(int(time.Second / app.cfg.Timing.Frame))

	err := ebiten.RunGame(app)
	app.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
