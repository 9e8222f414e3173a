// Package journal keeps a best-effort sqlite record of applied sentiment
// events, one session per run, and replays a session onto a fresh simulation.
package journal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/moodflight/config"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Tuning is the part of config.Config a run's evolution depends on
type Tuning struct {
	PositiveThreshold  int     `db:"positive_threshold"`
	NegativeThreshold  int     `db:"negative_threshold"`
	VelocityIncrement  float64 `db:"velocity_increment"`
	VelocityCeiling    float64 `db:"velocity_ceiling"`
	HyperspeedVelocity float64 `db:"hyperspeed_velocity"`
	CruiseVelocity     float64 `db:"cruise_velocity"`
	HazardVelocity     float64 `db:"hazard_velocity"`
	MarkerDrift        float64 `db:"marker_drift"`
	MaxMarkers         int     `db:"max_markers"`
	StarCount          int     `db:"star_count"`
}

// TuningOf extracts the replay-relevant fields of cfg
func TuningOf(cfg config.Config) Tuning {
	return Tuning{
		PositiveThreshold:  cfg.PositiveThreshold,
		NegativeThreshold:  cfg.NegativeThreshold,
		VelocityIncrement:  cfg.VelocityIncrement,
		VelocityCeiling:    cfg.VelocityCeiling,
		HyperspeedVelocity: cfg.HyperspeedVelocity,
		CruiseVelocity:     cfg.CruiseVelocity,
		HazardVelocity:     cfg.HazardVelocity,
		MarkerDrift:        cfg.MarkerDrift,
		MaxMarkers:         cfg.MaxMarkers,
		StarCount:          cfg.StarCount,
	}
}

// Apply overwrites the tuning fields of cfg
func (t Tuning) Apply(cfg config.Config) config.Config {
	cfg.PositiveThreshold = t.PositiveThreshold
	cfg.NegativeThreshold = t.NegativeThreshold
	cfg.VelocityIncrement = t.VelocityIncrement
	cfg.VelocityCeiling = t.VelocityCeiling
	cfg.HyperspeedVelocity = t.HyperspeedVelocity
	cfg.CruiseVelocity = t.CruiseVelocity
	cfg.HazardVelocity = t.HazardVelocity
	cfg.MarkerDrift = t.MarkerDrift
	cfg.MaxMarkers = t.MaxMarkers
	cfg.StarCount = t.StarCount
	return cfg
}

// Session is one recorded run
type Session struct {
	ID        string  `db:"id"`
	Seed      int64   `db:"seed"`
	ViewportW float64 `db:"viewport_w"`
	ViewportH float64 `db:"viewport_h"`
	StartedAt int64   `db:"started_at"` // unix milliseconds
	Events    int     `db:"events"`
	Tuning
}

// Config returns base with the session's seed and tuning, ready for replay
func (s Session) Config(base config.Config) config.Config {
	cfg := s.Tuning.Apply(base)
	cfg.Seed = s.Seed
	return cfg
}

// Viewport returns the viewport the session was laid out with
func (s Session) Viewport() core.Size {
	return core.Size{W: s.ViewportW, H: s.ViewportH}
}

// Started returns the session start time
func (s Session) Started() time.Time {
	return time.UnixMilli(s.StartedAt)
}

// Summary is a one-line human description
func (s Session) Summary() string {
	return s.ID + "  seed " + humanize.Comma(s.Seed) + "  " +
		humanize.Comma(int64(s.Events)) + " events  started " + humanize.Time(s.Started())
}

// Entry is one applied sentiment event
type Entry struct {
	Seq       int64  `db:"seq"`
	SessionID string `db:"session_id"`
	Frame     uint64 `db:"frame"`
	Kind      string `db:"kind"`
	SenderID  string `db:"sender_id"`
}

// Sentiment rebuilds the inbound event
func (e Entry) Sentiment() (events.Sentiment, error) {
	kind, err := events.ParseSentimentKind(e.Kind)
	if err != nil {
		return events.Sentiment{}, errors.Wrapf(err, "entry %d", e.Seq)
	}
	return events.Sentiment{Kind: kind, SenderID: e.SenderID}, nil
}

// Journal wraps the sqlite connection
type Journal struct {
	conn *sqlx.DB
	log  *logrus.Entry
}

// Open opens or creates the journal database at path
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create journal dir %s", dir)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}

	j := &Journal{conn: conn, log: logger.For("journal")}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "migrate journal")
	}
	return j, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		viewport_w REAL NOT NULL,
		viewport_h REAL NOT NULL,
		started_at INTEGER NOT NULL,
		positive_threshold INTEGER NOT NULL,
		negative_threshold INTEGER NOT NULL,
		velocity_increment REAL NOT NULL,
		velocity_ceiling REAL NOT NULL,
		hyperspeed_velocity REAL NOT NULL,
		cruise_velocity REAL NOT NULL,
		hazard_velocity REAL NOT NULL,
		marker_drift REAL NOT NULL,
		max_markers INTEGER NOT NULL,
		star_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		frame INTEGER NOT NULL,
		kind TEXT NOT NULL,
		sender_id TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_session_frame ON entries(session_id, frame);
	`
	_, err := j.conn.Exec(schema)
	return err
}

const sessionColumns = `id, seed, viewport_w, viewport_h, started_at,
	positive_threshold, negative_threshold, velocity_increment, velocity_ceiling,
	hyperspeed_velocity, cruise_velocity, hazard_velocity, marker_drift,
	max_markers, star_count`

const sessionSelect = `s.id, s.seed, s.viewport_w, s.viewport_h, s.started_at,
	s.positive_threshold, s.negative_threshold, s.velocity_increment, s.velocity_ceiling,
	s.hyperspeed_velocity, s.cruise_velocity, s.hazard_velocity, s.marker_drift,
	s.max_markers, s.star_count, COUNT(e.seq) AS events`

// StartSession registers a new run with the seed and tuning of cfg
func (j *Journal) StartSession(cfg config.Config, viewport core.Size) (Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		Seed:      cfg.Seed,
		ViewportW: viewport.W,
		ViewportH: viewport.H,
		StartedAt: time.Now().UnixMilli(),
		Tuning:    TuningOf(cfg),
	}
	_, err := j.conn.NamedExec(`INSERT INTO sessions (`+sessionColumns+`)
		VALUES (:id, :seed, :viewport_w, :viewport_h, :started_at,
			:positive_threshold, :negative_threshold, :velocity_increment, :velocity_ceiling,
			:hyperspeed_velocity, :cruise_velocity, :hazard_velocity, :marker_drift,
			:max_markers, :star_count)`, s)
	if err != nil {
		return Session{}, errors.Wrap(err, "insert session")
	}
	j.log.WithFields(logrus.Fields{"session": s.ID, "seed": s.Seed}).Info("journal session started")
	return s, nil
}

// RecordBatch appends entries in one transaction
func (j *Journal) RecordBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin batch")
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT INTO entries (session_id, frame, kind, sender_id) VALUES (?, ?, ?, ?)",
			e.SessionID, int64(e.Frame), e.Kind, e.SenderID,
		)
		if err != nil {
			return errors.Wrapf(err, "insert entry at frame %d", e.Frame)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit batch")
	}
	return nil
}

// Session loads one session with its event count
func (j *Journal) Session(id string) (Session, error) {
	var sessions []Session
	err := j.conn.Select(&sessions, `SELECT `+sessionSelect+`
		FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		WHERE s.id = ?
		GROUP BY s.id`, id)
	if err != nil {
		return Session{}, errors.Wrapf(err, "load session %s", id)
	}
	if len(sessions) == 0 {
		return Session{}, errors.Wrap(ErrSessionNotFound, id)
	}
	return sessions[0], nil
}

// Sessions lists every session, most recent first
func (j *Journal) Sessions() ([]Session, error) {
	var sessions []Session
	err := j.conn.Select(&sessions, `SELECT `+sessionSelect+`
		FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}
	return sessions, nil
}

// Entries returns a session's events in application order
func (j *Journal) Entries(sessionID string) ([]Entry, error) {
	var entries []Entry
	err := j.conn.Select(&entries,
		"SELECT seq, session_id, frame, kind, sender_id FROM entries WHERE session_id = ? ORDER BY frame, seq",
		sessionID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "load entries of %s", sessionID)
	}
	return entries, nil
}
