package platform

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1broseidon/softx/internal/canvas"
)

// ErrGameTerminated is returned by Run when the context was cancelled.
var ErrGameTerminated = errors.New("game terminated")

// EbitenConfig holds the window settings for the ebiten backend.
type EbitenConfig struct {
	Width  int
	Height int
	Title  string
	TPS    int
}

// EbitenGame implements ebiten.Game. Each Update advances the driver by one
// tick; Draw uploads the frame only when the driver reported a change.
type EbitenGame struct {
	config EbitenConfig
	driver Driver

	mu      sync.Mutex
	ctx     context.Context
	last    time.Time
	frame   *canvas.Surface
	changed bool
	pixels  []byte
	screen  *ebiten.Image
}

var _ ebiten.Game = (*EbitenGame)(nil)

// NewEbitenGame creates a game driving d.
func NewEbitenGame(cfg EbitenConfig, d Driver) *EbitenGame {
	return &EbitenGame{config: cfg, driver: d}
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop terminates.
func (g *EbitenGame) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Update implements ebiten.Game.Update.
func (g *EbitenGame) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	now := time.Now()
	var dt time.Duration
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	x, y := ebiten.CursorPosition()
	p := Pointer{X: x, Y: y, LeftDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
	frame, changed := g.driver.Advance(dt, p)
	g.frame = frame
	g.changed = g.changed || changed
	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *EbitenGame) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frame == nil {
		return
	}
	if g.screen == nil || g.changed {
		if g.screen == nil {
			g.screen = ebiten.NewImage(g.frame.Width, g.frame.Height)
		}
		g.pixels = g.frame.RGBA(g.pixels)
		g.screen.WritePixels(g.pixels)
		g.changed = false
	}
	screen.DrawImage(g.screen, nil)
}

// Layout implements ebiten.Game.Layout. The logical screen is the target size.
func (g *EbitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// Run opens the window and blocks until it is closed or ctx is done.
func (g *EbitenGame) Run(ctx context.Context) error {
	g.SetContext(ctx)
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	if g.config.TPS > 0 {
		ebiten.SetTPS(g.config.TPS)
	}

	err := ebiten.RunGame(g)
	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}
