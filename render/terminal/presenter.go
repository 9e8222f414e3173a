// Package terminal presents the flight scene on a tcell screen.
//
// Scene coordinates are pixels; each terminal cell covers
// TerminalCellWidth x TerminalCellHeight pixels. The bottom row is reserved
// for the status line and is excluded from the reported viewport.
package terminal

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/logger"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/status"
)

// ErrNoViewport is returned while the screen is too small to draw on
var ErrNoViewport = errors.New("terminal has no drawable area")

// Glyphs per kind
const (
	glyphFill   = '█'
	glyphStar   = '*'
	glyphTrail  = '│'
	glyphHazard = '┃'
	glyphShip   = '▲'
	glyphHit    = '▒'
	glyphFlame  = '▼'
	glyphEmpty  = ' '
)

// Presenter implements render.Presenter and render.FrameBoundary over tcell
type Presenter struct {
	mu     sync.Mutex
	screen tcell.Screen

	cols, rows int

	status  *status.Registry
	hud     string
	hudAt   time.Time
	hudTTL  time.Duration
	bgStyle tcell.Style

	log *logrus.Entry
}

// New wraps an initialized screen. reg feeds the status line and may be nil.
func New(screen tcell.Screen, reg *status.Registry) *Presenter {
	p := &Presenter{
		screen:  screen,
		status:  reg,
		hudTTL:  constants.HUDRefreshInterval,
		bgStyle: tcell.StyleDefault.Background(tcell.ColorBlack),
		log:     logger.For("terminal"),
	}
	p.cols, p.rows = screen.Size()
	return p
}

// Viewport reports the drawable area in scene pixels
func (p *Presenter) Viewport() (core.Size, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cols, p.rows = p.screen.Size()
	if p.cols <= 0 || p.rows <= 1 {
		return core.Size{}, errors.Wrapf(ErrNoViewport, "%dx%d cells", p.cols, p.rows)
	}
	return core.Size{
		W: float64(p.cols * constants.TerminalCellWidth),
		H: float64((p.rows - 1) * constants.TerminalCellHeight),
	}, nil
}

// BeginFrame clears the back buffer
func (p *Presenter) BeginFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cols, p.rows = p.screen.Size()
	p.screen.Fill(glyphEmpty, p.bgStyle)
}

// EndFrame draws the status line and flushes the frame to the terminal
func (p *Presenter) EndFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.drawHUD()
	p.screen.Show()
}

// Draw paints one request clipped to the game area
func (p *Presenter) Draw(req render.DrawRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cols <= 0 || p.rows <= 1 {
		return ErrNoViewport
	}

	style := p.bgStyle.Foreground(toColor(req.Color))

	switch {
	case req.Trail:
		p.drawTrail(req, style)
	case req.Kind == entity.KindMarker:
		p.drawText(cellX(req.Pos.X), cellY(req.Pos.Y), req.Text, style)
	case req.Kind == entity.KindIndicator:
		p.drawGauge(req)
	case req.Dims == nil:
		return errors.Errorf("draw %s %d: no dimensions", req.Kind, req.ID)
	case req.Kind == entity.KindShip:
		glyph := glyphShip
		if req.Impacted {
			glyph = glyphHit
			style = p.bgStyle.Foreground(tcell.ColorRed)
		}
		p.fillRect(req.Pos, *req.Dims, glyph, style)
	case req.Kind == entity.KindEffectSprite:
		p.fillRect(req.Pos, *req.Dims, glyphFlame, style)
	case req.Kind == entity.KindHazard:
		p.fillRect(req.Pos, *req.Dims, glyphHazard, style)
	case req.Layer == entity.LayerStar:
		p.set(cellX(req.Pos.X), cellY(req.Pos.Y), glyphStar, style)
	default:
		p.fillRect(req.Pos, *req.Dims, glyphFill, style)
	}
	return nil
}

// Close restores the terminal
func (p *Presenter) Close() {
	p.screen.Fini()
}

func cellX(x float64) int {
	return int(math.Floor(x / constants.TerminalCellWidth))
}

func cellY(y float64) int {
	return int(math.Floor(y / constants.TerminalCellHeight))
}

// cellSpan maps a pixel span to the inclusive cell range it touches, at least one cell
func cellSpan(from, length, cell float64) (int, int) {
	first := int(math.Floor(from / cell))
	last := int(math.Ceil((from+length)/cell)) - 1
	return first, max(first, last)
}

func toColor(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// set writes one cell inside the game area; the HUD row is never touched
func (p *Presenter) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= p.cols || y >= p.rows-1 {
		return
	}
	p.screen.SetContent(x, y, r, nil, style)
}

func (p *Presenter) fillRect(pos core.Vec2, dims core.Size, r rune, style tcell.Style) {
	x0, x1 := cellSpan(pos.X, dims.W, constants.TerminalCellWidth)
	y0, y1 := cellSpan(pos.Y, dims.H, constants.TerminalCellHeight)
	for y := max(y0, 0); y <= min(y1, p.rows-2); y++ {
		for x := max(x0, 0); x <= min(x1, p.cols-1); x++ {
			p.screen.SetContent(x, y, r, nil, style)
		}
	}
}

func (p *Presenter) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		p.set(x+i, y, r, style)
	}
}

// drawTrail draws a vertical streak from the recorded origin to the current y
func (p *Presenter) drawTrail(req render.DrawRequest, style tcell.Style) {
	w := 0.0
	if req.Dims != nil {
		w = req.Dims.W
	}
	x := cellX(req.Pos.X + w/2)
	top, bottom := cellY(min(req.TrailFrom, req.Pos.Y)), cellY(max(req.TrailFrom, req.Pos.Y))
	for y := top; y <= bottom; y++ {
		p.set(x, y, glyphTrail, style)
	}
}

// drawGauge draws a white border with the fill rising from the bottom
func (p *Presenter) drawGauge(req render.DrawRequest) {
	if req.Dims == nil {
		return
	}
	x0, x1 := cellSpan(req.Pos.X, req.Dims.W, constants.TerminalCellWidth)
	y0, y1 := cellSpan(req.Pos.Y, req.Dims.H, constants.TerminalCellHeight)

	border := p.bgStyle.Foreground(tcell.ColorWhite)
	fill := p.bgStyle.Foreground(toColor(req.Color))

	inner := y1 - y0 - 1
	filled := int(math.Round(req.Fill * float64(max(inner, 0))))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case y == y0 || y == y1:
				p.set(x, y, '─', border)
			case x == x0 || x == x1:
				p.set(x, y, '│', border)
			case y > y1-1-filled:
				p.set(x, y, glyphFill, fill)
			}
		}
	}
	p.set(x0, y0, '┌', border)
	p.set(x1, y0, '┐', border)
	p.set(x0, y1, '└', border)
	p.set(x1, y1, '┘', border)
}

// drawHUD renders the status line on the last row, rebuilding the text at
// most once per refresh interval
func (p *Presenter) drawHUD() {
	if p.rows <= 0 {
		return
	}
	now := time.Now()
	if p.hud == "" || now.Sub(p.hudAt) >= p.hudTTL {
		p.hud = p.statusLine()
		p.hudAt = now
	}

	y := p.rows - 1
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	line := []rune(p.hud)
	for x := 0; x < p.cols; x++ {
		r := glyphEmpty
		if x < len(line) {
			r = line[x]
		}
		p.screen.SetContent(x, y, r, nil, style)
	}
}

func (p *Presenter) statusLine() string {
	if p.status == nil {
		return " moodflight "
	}
	ints := p.status.IntValues()
	var b strings.Builder
	fmt.Fprintf(&b, " %s | v %s | frame %s | entities %s | hits %s | +%s -%s dropped %s | p/n send, q quit",
		strings.ToUpper(p.status.Strings.Get(status.KeyPhase).Load()),
		humanize.FormatFloat("#,###.##", p.status.Floats.Get(status.KeyVelocity).Get()),
		humanize.Comma(ints[status.KeyFrames]),
		humanize.Comma(ints[status.KeyEntities]),
		humanize.Comma(ints[status.KeyShipHits]),
		humanize.Comma(ints[status.KeySentimentPositive]),
		humanize.Comma(ints[status.KeySentimentNegative]),
		humanize.Comma(ints[status.KeySentimentDropped]),
	)
	return b.String()
}
