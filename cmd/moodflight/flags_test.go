package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/moodflight/config"
	"github.com/lixenwraith/moodflight/events"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	base := config.Default()
	base.Seed = 5
	base.JournalPath = "from-env.db"

	o, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.apply(base); got != base {
		t.Errorf("Expected unchanged config, got %+v", got)
	}

	o, err = parseFlags([]string{"-seed", "0", "-headless", "-no-audio", "-journal", "run.db", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	got := o.apply(base)
	if got.Seed != 0 {
		t.Errorf("Expected explicit seed 0, got %d", got.Seed)
	}
	if !got.Headless || got.Audio {
		t.Errorf("Expected headless without audio, got headless=%v audio=%v", got.Headless, got.Audio)
	}
	if got.JournalPath != "run.db" || got.LogLevel != "debug" {
		t.Errorf("Expected run.db at debug, got %q at %q", got.JournalPath, got.LogLevel)
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"-warp"}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestParseLine(t *testing.T) {
	ev, ok, err := parseLine("  positive  alice ")
	if err != nil || !ok {
		t.Fatalf("Expected event, got ok=%v err=%v", ok, err)
	}
	if ev.Kind != events.SentimentPositive || ev.SenderID != "alice" {
		t.Errorf("Expected positive from alice, got %+v", ev)
	}

	for _, line := range []string{"", "   ", "# comment"} {
		if _, ok, err := parseLine(line); ok || err != nil {
			t.Errorf("Expected %q skipped silently, got ok=%v err=%v", line, ok, err)
		}
	}

	for _, line := range []string{"neutral bob", "negative"} {
		if _, _, err := parseLine(line); !errors.Is(err, events.ErrMalformedSentiment) {
			t.Errorf("Expected malformed error for %q, got %v", line, err)
		}
	}
}

func TestFeedLines(t *testing.T) {
	inbox := make(chan events.Sentiment, 4)
	input := "positive a\nbogus line\n\nnegative b\n"
	feedLines(context.Background(), strings.NewReader(input), inbox)

	var got []events.Sentiment
	for len(got) < 2 {
		select {
		case ev := <-inbox:
			got = append(got, ev)
		case <-time.After(time.Second):
			t.Fatalf("Expected 2 events, got %d", len(got))
		}
	}
	if got[0].SenderID != "a" || got[1].Kind != events.SentimentNegative {
		t.Errorf("Expected a then negative b, got %+v", got)
	}
}
