package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/status"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Expected simulation screen, got %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		b.WriteRune(runeAt(screen, x, y))
	}
	return b.String()
}

func TestViewportExcludesStatusRow(t *testing.T) {
	p := New(newScreen(t), nil)
	v, err := p.Viewport()
	if err != nil {
		t.Fatal(err)
	}
	if v != (core.Size{W: 640, H: 368}) {
		t.Errorf("Expected 640x368 px, got %+v", v)
	}
}

func TestViewportTooSmall(t *testing.T) {
	screen := newScreen(t)
	screen.SetSize(10, 1)
	p := New(screen, nil)
	if _, err := p.Viewport(); !errors.Is(err, ErrNoViewport) {
		t.Errorf("Expected ErrNoViewport, got %v", err)
	}
}

func TestDrawRectMapsPixelsToCells(t *testing.T) {
	screen := newScreen(t)
	p := New(screen, nil)
	p.BeginFrame()

	ship := entity.NewShip(16, 32)
	if err := p.Draw(render.NewDrawRequest(ship)); err != nil {
		t.Fatal(err)
	}

	// 125 px from x=16 spans cells 2..17, from y=32 spans rows 2..9
	if runeAt(screen, 2, 2) != glyphShip || runeAt(screen, 17, 9) != glyphShip {
		t.Error("Expected ship corners filled")
	}
	if runeAt(screen, 18, 2) == glyphShip || runeAt(screen, 2, 10) == glyphShip {
		t.Error("Expected nothing outside the ship box")
	}

	ship.Impact.WasHit = true
	_ = p.Draw(render.NewDrawRequest(ship))
	if runeAt(screen, 5, 5) != glyphHit {
		t.Error("Expected hit glyph while impacted")
	}
}

func TestDrawClipsToGameArea(t *testing.T) {
	screen := newScreen(t)
	p := New(screen, nil)
	p.BeginFrame()

	ground := entity.NewGround(core.Size{W: 2000, H: 2000}, 300)
	if err := p.Draw(render.NewDrawRequest(ground)); err != nil {
		t.Fatal(err)
	}
	if runeAt(screen, 0, 23) == glyphFill {
		t.Error("Expected status row untouched by scene drawing")
	}
	if runeAt(screen, 79, 22) != glyphFill {
		t.Error("Expected ground clipped to the last game row")
	}
}

func TestDrawMarkerText(t *testing.T) {
	screen := newScreen(t)
	p := New(screen, nil)
	p.BeginFrame()

	m := entity.NewMarker(80, 24, "***ab :)", 2)
	_ = p.Draw(render.NewDrawRequest(m))
	if got := rowText(screen, 1, 80)[10:18]; got != "***ab :)" {
		t.Errorf("Expected marker text at cell 10, got %q", got)
	}
}

func TestDrawTrail(t *testing.T) {
	screen := newScreen(t)
	p := New(screen, nil)
	p.BeginFrame()

	star := entity.NewStar(40, 160, core.RGBWhite)
	origin := 32.0
	star.TrailOrigin = &origin
	_ = p.Draw(render.NewDrawRequest(star))

	for y := 2; y <= 10; y++ {
		if runeAt(screen, 5, y) != glyphTrail {
			t.Errorf("Expected trail at row %d", y)
		}
	}
	if runeAt(screen, 5, 11) == glyphTrail {
		t.Error("Expected trail to stop at the star")
	}
}

func TestDrawGaugeFill(t *testing.T) {
	screen := newScreen(t)
	p := New(screen, nil)
	p.BeginFrame()

	v := 250.0
	gauge := entity.NewGauge(core.Size{W: 640, H: 368}, 125, &v, 500)
	_ = p.Draw(render.NewDrawRequest(gauge))

	x0, _ := cellSpan(gauge.Pos.X, gauge.Dims.W, 8)
	y0, y1 := cellSpan(gauge.Pos.Y, gauge.Dims.H, 16)
	if runeAt(screen, x0, y0) != '┌' || runeAt(screen, x0, y1) != '└' {
		t.Error("Expected gauge border corners")
	}

	filled := 0
	for y := y0 + 1; y < y1; y++ {
		if runeAt(screen, x0+1, y) == glyphFill {
			filled++
		}
	}
	inner := y1 - y0 - 1
	if want := (inner + 1) / 2; filled != want && filled != inner/2 {
		t.Errorf("Expected about half of %d rows filled, got %d", inner, filled)
	}
	if runeAt(screen, x0+1, y1-1) != glyphFill {
		t.Error("Expected fill to rise from the bottom")
	}
}

func TestHUDShowsMetrics(t *testing.T) {
	screen := newScreen(t)
	reg := status.NewRegistry()
	reg.Ints.Get(status.KeyFrames).Store(12345)
	reg.Strings.Get(status.KeyPhase).Store("normal")
	reg.Floats.Get(status.KeyVelocity).Set(2.5)

	p := New(screen, reg)
	p.BeginFrame()
	p.EndFrame()

	line := rowText(screen, 23, 80)
	for _, want := range []string{"NORMAL", "12,345", "2.5"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected status line to contain %q, got %q", want, line)
		}
	}
}

func TestDrawRejectsMissingDims(t *testing.T) {
	p := New(newScreen(t), nil)
	req := render.DrawRequest{Kind: entity.KindHazard}
	if err := p.Draw(req); err == nil {
		t.Error("Expected error for a box without dimensions")
	}
}

func TestInputMapsKeysToSentiment(t *testing.T) {
	screen := newScreen(t)
	inbox := make(chan events.Sentiment, 4)
	quit := make(chan struct{})
	in := NewInput(screen, inbox, func() { close(quit) })

	in.Start(context.Background())
	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("Expected quit callback")
	}

	if len(inbox) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(inbox))
	}
	first, second := <-inbox, <-inbox
	if first.Kind != events.SentimentPositive || second.Kind != events.SentimentNegative {
		t.Errorf("Expected positive then negative, got %s then %s", first.Kind, second.Kind)
	}
	if first.SenderID != "keyboard-0001" || second.SenderID != "keyboard-0002" {
		t.Errorf("Expected numbered keyboard senders, got %q and %q", first.SenderID, second.SenderID)
	}
	if err := first.Validate(); err != nil {
		t.Errorf("Expected valid event, got %v", err)
	}
}
