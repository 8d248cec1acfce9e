package avatar

import (
	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

// Presenter renders the avatar onto the two live surfaces: the control panel
// (black, avatar in its left third, status overlay on the right) and the
// virtual-camera output (chroma key, avatar centered). It owns both surfaces
// and the texture cache partitioned by them.
type Presenter struct {
	avatar   *Avatar
	textures *TextureCache[*ebiten.Image]
	cfg      Config
	bg       Color

	panel  *RenderSurface
	output *RenderSurface

	overlay *overlay
	shots   *screenshotQueue
	stats   *statsLogger
}

// NewPresenter creates both render surfaces at the configured window size.
// clk times the FPS readout, screenshot names and statistics logging; nil
// uses the wall clock.
func NewPresenter(cfg Config, avatar *Avatar, textures *TextureCache[*ebiten.Image], clk clock.Clock) *Presenter {
	if clk == nil {
		clk = clock.New()
	}
	p := &Presenter{
		avatar:   avatar,
		textures: textures,
		cfg:      cfg,
		bg:       cfg.BackgroundColor(),
		panel:    NewRenderSurface("control", cfg.Window.Width, cfg.Window.Height),
		overlay:  newOverlay(cfg, clk),
		shots:    newScreenshotQueue(cfg.ScreenshotDir, clk),
		stats:    newStatsLogger(clk),
	}
	p.OpenOutput()
	return p
}

// Panel returns the control panel surface.
func (p *Presenter) Panel() *RenderSurface { return p.panel }

// Output returns the virtual-camera surface, or nil while it is closed.
func (p *Presenter) Output() *RenderSurface { return p.output }

// OpenOutput creates the virtual-camera surface if it is closed. Each
// reopened surface gets a new identity and starts with a cold cache.
func (p *Presenter) OpenOutput() {
	if p.output != nil {
		return
	}
	p.output = NewRenderSurface("output", p.cfg.Window.Width, p.cfg.Window.Height)
	glog.V(1).Infof("avatar: opened output surface %s", p.output.ID())
}

// CloseOutput releases the output surface's cached textures and disposes it.
func (p *Presenter) CloseOutput() {
	if p.output == nil {
		return
	}
	p.textures.ClearSurface(p.output.ID())
	p.output.Dispose()
	glog.V(1).Infof("avatar: closed output surface %s", p.output.ID())
	p.output = nil
}

// ToggleOutput closes the output surface when open and opens it otherwise.
func (p *Presenter) ToggleOutput() {
	if p.output != nil {
		p.CloseOutput()
	} else {
		p.OpenOutput()
	}
}

// Screenshot queues a labeled capture of the output surface, written on the
// next Render.
func (p *Presenter) Screenshot(label string) {
	p.shots.add(label)
}

// Render redraws both surfaces for the current avatar state.
func (p *Presenter) Render() {
	p.panel.Fill(ColorPanel)
	p.drawAvatar(p.panel, p.cfg.Window.Width/3)
	p.overlay.draw(p.panel, p.avatar, p.textures.Stats())

	if p.output != nil {
		p.output.Fill(p.bg)
		p.drawAvatar(p.output, 0)
		p.shots.flush(p.output)
	} else {
		p.shots.discard()
	}

	p.stats.maybeLog(p.textures.Stats())
}

// drawAvatar draws the current transition frame, or else the cached texture
// for the resolved image key. Nothing is drawn when no image resolves.
func (p *Presenter) drawAvatar(s *RenderSurface, regionW int) {
	flip := p.avatar.Flipped()
	if frame, ok := p.avatar.CurrentFrame(); ok {
		s.DrawFrame(frame, regionW, flip)
		return
	}
	key, ok := p.avatar.ResolveKey()
	if !ok {
		return
	}
	tex, ok := p.textures.Get(key.Pose, key.Expression, s.ID())
	if !ok {
		return
	}
	s.DrawCentered(tex, regionW, flip)
}

// Draw composites the surfaces onto the window: the panel on the left and
// the output, when open, on the right.
func (p *Presenter) Draw(screen *ebiten.Image) {
	screen.DrawImage(p.panel.Image(), nil)
	if p.output == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(p.panel.Width()), 0)
	screen.DrawImage(p.output.Image(), &op)
}

// Layout returns the window size holding both surfaces side by side.
func (p *Presenter) Layout() (int, int) {
	return p.cfg.Window.Width * 2, p.cfg.Window.Height
}

// Close clears every surface's textures and disposes the surfaces.
func (p *Presenter) Close() {
	p.CloseOutput()
	p.textures.ClearSurface(p.panel.ID())
	p.panel.Dispose()
	p.textures.Close()
}
