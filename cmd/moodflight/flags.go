package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"strings"

	"github.com/lixenwraith/moodflight/config"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
)

// cliOptions are the command-line overrides applied on top of the env config
type cliOptions struct {
	envFile  string
	seed     int64
	seedSet  bool
	headless bool
	noAudio  bool
	frames   uint64
	journal  string
	logLevel string

	replay       string
	listSessions bool
}

func parseFlags(args []string) (cliOptions, error) {
	var o cliOptions
	fs := flag.NewFlagSet("moodflight", flag.ContinueOnError)
	fs.StringVar(&o.envFile, "env", ".env", "env file with MOODFLIGHT_* settings")
	fs.Int64Var(&o.seed, "seed", 0, "random seed, overrides MOODFLIGHT_SEED")
	fs.BoolVar(&o.headless, "headless", false, "run without a terminal, reading \"<positive|negative> <sender>\" lines from stdin")
	fs.BoolVar(&o.noAudio, "no-audio", false, "disable audio cues")
	fs.Uint64Var(&o.frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")
	fs.StringVar(&o.journal, "journal", "", "sqlite journal path, overrides MOODFLIGHT_JOURNAL")
	fs.StringVar(&o.logLevel, "log-level", "", "log level, overrides MOODFLIGHT_LOG_LEVEL")
	fs.StringVar(&o.replay, "replay", "", "replay a journal session by id")
	fs.BoolVar(&o.listSessions, "sessions", false, "list journal sessions and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})
	return o, nil
}

// apply overlays explicitly set flags on cfg
func (o cliOptions) apply(cfg config.Config) config.Config {
	if o.seedSet {
		cfg.Seed = o.seed
	}
	if o.headless {
		cfg.Headless = true
	}
	if o.noAudio {
		cfg.Audio = false
	}
	if o.journal != "" {
		cfg.JournalPath = o.journal
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg
}

// feedLines forwards "<kind> <sender>" lines from r to inbox until r or ctx
// ends. Unparseable lines are logged and skipped.
func feedLines(ctx context.Context, r io.Reader, inbox chan<- events.Sentiment) {
	log := logger.For("stdin")
	core.Go(func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ev, ok, err := parseLine(scanner.Text())
			if err != nil {
				log.WithError(err).Warn("line skipped")
				continue
			}
			if !ok {
				continue
			}
			select {
			case inbox <- ev:
			case <-ctx.Done():
				return
			}
		}
	})
}

// parseLine reads one event; blank lines and # comments report ok false
func parseLine(line string) (events.Sentiment, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return events.Sentiment{}, false, nil
	}
	kindField, sender, _ := strings.Cut(line, " ")
	kind, err := events.ParseSentimentKind(kindField)
	if err != nil {
		return events.Sentiment{}, false, err
	}
	ev := events.Sentiment{Kind: kind, SenderID: strings.TrimSpace(sender)}
	if err := ev.Validate(); err != nil {
		return events.Sentiment{}, false, err
	}
	return ev, true, nil
}
