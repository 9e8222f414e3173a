package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/events"
)

// Input turns key presses into sentiment events
// p sends a positive event, n a negative one; q, Esc and Ctrl-C request quit.
// With a nil inbox only the quit keys act.
type Input struct {
	screen tcell.Screen
	inbox  chan<- events.Sentiment
	quit   func()
	sent   uint64
}

// NewInput creates an input source writing to inbox and calling quit on a quit key
func NewInput(screen tcell.Screen, inbox chan<- events.Sentiment, quit func()) *Input {
	return &Input{screen: screen, inbox: inbox, quit: quit}
}

// Start polls the screen in the background until ctx ends or the screen is finalized
func (in *Input) Start(ctx context.Context) {
	core.Go(func() { in.run(ctx) })
}

func (in *Input) run(ctx context.Context) {
	for {
		ev := in.screen.PollEvent()
		if ev == nil {
			return
		}
		if !in.handle(ctx, ev) {
			return
		}
	}
}

// handle processes one event; false stops polling
func (in *Input) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			if in.quit != nil {
				in.quit()
			}
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'p', 'P':
			return in.send(ctx, events.SentimentPositive)
		case 'n', 'N':
			return in.send(ctx, events.SentimentNegative)
		}

	case *tcell.EventResize:
		in.screen.Sync()
	}
	return true
}

func (in *Input) send(ctx context.Context, kind events.SentimentKind) bool {
	if in.inbox == nil {
		return true
	}
	in.sent++
	ev := events.Sentiment{
		Kind:     kind,
		SenderID: fmt.Sprintf("%s%04d", constants.KeyboardSenderPrefix, in.sent),
	}
	select {
	case in.inbox <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
