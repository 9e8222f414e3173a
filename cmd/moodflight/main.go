package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/audio"
	"github.com/lixenwraith/moodflight/config"
	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/engine"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/journal"
	"github.com/lixenwraith/moodflight/logger"
	"github.com/lixenwraith/moodflight/render"
	"github.com/lixenwraith/moodflight/render/terminal"
	"github.com/lixenwraith/moodflight/status"
)

func main() {
	// Panic recovery: restore the terminal through the crash hook
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "moodflight: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "moodflight: %v\n", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	cfg = opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.For("main")

	var j *journal.Journal
	if cfg.JournalPath != "" {
		if j, err = journal.Open(cfg.JournalPath); err != nil {
			return err
		}
		defer j.Close()
	}

	switch {
	case opts.listSessions:
		return listSessions(j)
	case opts.replay != "":
		return replay(j, cfg, opts)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := status.NewRegistry()
	inbox := make(chan events.Sentiment, constants.SentimentInboxSize)

	presenter, screen, err := newPresenter(cfg, reg)
	if err != nil {
		return err
	}
	if screen != nil {
		defer screen.Fini()
		terminal.NewInput(screen, inbox, cancel).Start(ctx)
	} else {
		feedLines(ctx, os.Stdin, inbox)
	}

	simOpts := []engine.Option{engine.WithStatus(reg)}
	if v, err := presenter.Viewport(); err == nil {
		simOpts = append(simOpts, engine.WithViewport(v))
	}
	sim, err := engine.New(cfg, simOpts...)
	if err != nil {
		return err
	}

	scheduler := engine.NewScheduler(sim, presenter, cfg.TickInterval())
	scheduler.SetFrameLimit(opts.frames)

	if cfg.Audio && !cfg.Headless {
		out := audio.NewSpeakerOutput(audio.DefaultSampleRate())
		if err := out.Init(); err != nil {
			log.WithError(err).Warn("audio unavailable, continuing without audio")
		} else {
			defer out.Close()
			scheduler.RegisterHandler(audio.NewCuePlayer(out, audio.DefaultSampleRate(), constants.DefaultCueVolume))
		}
	}

	if j != nil {
		v := sim.Snapshot().World.Viewport
		session, err := j.StartSession(cfg, v)
		if err != nil {
			return err
		}
		recorder := journal.NewRecorder(j, session.ID)
		defer recorder.Close()
		scheduler.RegisterHandler(recorder)
		log.WithField("session", session.ID).Info("journaling sentiment")
	}

	log.WithFields(logrus.Fields{
		"seed":     cfg.Seed,
		"headless": cfg.Headless,
		"rate":     cfg.FrameRate,
	}).Info("flight started")

	if err := scheduler.Run(ctx, inbox); err != nil {
		return errors.Wrap(err, "scheduler")
	}

	ints := reg.IntValues()
	log.WithFields(logrus.Fields{
		"frames": humanize.Comma(ints[status.KeyFrames]),
		"hits":   ints[status.KeyShipHits],
		"phase":  reg.Strings.Get(status.KeyPhase).Load(),
	}).Info("flight ended")

	if cfg.Headless {
		fmt.Printf("%s frames, phase %s, %d hits\n",
			humanize.Comma(ints[status.KeyFrames]), reg.Strings.Get(status.KeyPhase).Load(), ints[status.KeyShipHits])
	}
	return nil
}

// newPresenter returns the tcell presenter and its screen, or a headless
// recorder and a nil screen
func newPresenter(cfg config.Config, reg *status.Registry) (render.Presenter, tcell.Screen, error) {
	if cfg.Headless {
		rec := render.NewRecorder(core.Size{W: cfg.ViewportWidth, H: cfg.ViewportHeight})
		rec.Keep = 1
		return rec, nil, nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "init screen")
	}
	core.SetCrashHandler(func(any) { screen.Fini() })
	return terminal.New(screen, reg), screen, nil
}

func listSessions(j *journal.Journal) error {
	if j == nil {
		return errors.New("-sessions needs a journal path")
	}
	sessions, err := j.Sessions()
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Println(s.Summary())
	}
	return nil
}

// replay runs a recorded session. Headless replays use the recorded viewport
// and reproduce the live run exactly; terminal replays follow the current
// terminal size and are paced at the frame rate.
func replay(j *journal.Journal, cfg config.Config, opts cliOptions) error {
	if j == nil {
		return errors.New("-replay needs a journal path")
	}
	session, err := j.Session(opts.replay)
	if err != nil {
		return err
	}
	entries, err := j.Entries(session.ID)
	if err != nil {
		return err
	}

	frames := opts.frames
	if frames == 0 {
		frames = uint64(cfg.FrameRate) * constants.ReplayTailSeconds
		if n := len(entries); n > 0 {
			frames += entries[n-1].Frame + 1
		}
	}

	if journal.TuningOf(cfg) != session.Tuning {
		logger.For("main").WithField("session", session.ID).Info("replaying with the recorded tuning")
	}
	cfg = session.Config(cfg)
	reg := status.NewRegistry()
	sim, err := engine.New(cfg, engine.WithViewport(session.Viewport()), engine.WithStatus(reg))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		presenter  render.Presenter
		replayOpts []journal.ReplayOption
	)
	if cfg.Headless {
		presenter = render.NewRecorder(session.Viewport())
	} else {
		p, screen, err := newPresenter(cfg, reg)
		if err != nil {
			return err
		}
		defer screen.Fini()
		terminal.NewInput(screen, nil, cancel).Start(ctx)
		presenter = p
		replayOpts = append(replayOpts, journal.WithPacing(ctx, cfg.TickInterval()))
	}

	applied, err := journal.Replay(entries, sim, presenter, frames, replayOpts...)
	if err != nil {
		return err
	}
	logger.For("main").WithFields(logrus.Fields{
		"session": session.ID,
		"applied": applied,
		"frames":  sim.Frame(),
	}).Info("replay finished")

	if cfg.Headless {
		snap := sim.Snapshot()
		fmt.Printf("replayed %d of %d events over %s frames, phase %s, %d hits\n",
			applied, len(entries), humanize.Comma(int64(snap.World.Frame)), snap.World.Phase,
			reg.IntValues()[status.KeyShipHits])
	}
	return nil
}
