package journal

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/moodflight/constants"
	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/events"
	"github.com/lixenwraith/moodflight/logger"
)

type batchWriter interface {
	RecordBatch(entries []Entry) error
}

// Recorder writes applied sentiment events of one session.
// It implements events.Handler. HandleEvent only queues the entry; a background
// writer commits queued entries in batches, so a slow or locked database never
// holds up the frame loop. A full queue drops the entry and counts it.
type Recorder struct {
	writer  batchWriter
	session string

	queue     chan Entry
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
	failed    atomic.Int64

	log *logrus.Entry
}

// NewRecorder binds a recorder to a session and starts its writer
func NewRecorder(j *Journal, sessionID string) *Recorder {
	return newRecorder(j, sessionID, constants.JournalBufferSize)
}

func newRecorder(w batchWriter, sessionID string, buffer int) *Recorder {
	r := &Recorder{
		writer:  w,
		session: sessionID,
		queue:   make(chan Entry, buffer),
		done:    make(chan struct{}),
		log:     logger.For("journal").WithField("session", sessionID),
	}
	core.Go(r.run)
	return r
}

// EventTypes implements events.Handler
func (r *Recorder) EventTypes() []events.EventType {
	return []events.EventType{events.EventSentimentApplied}
}

// HandleEvent implements events.Handler; it never blocks
func (r *Recorder) HandleEvent(ev events.GameEvent) {
	payload, ok := ev.Payload.(*events.SentimentPayload)
	if !ok {
		return
	}
	entry := Entry{
		SessionID: r.session,
		Frame:     ev.Frame,
		Kind:      payload.Sentiment.Kind.String(),
		SenderID:  payload.Sentiment.SenderID,
	}
	select {
	case r.queue <- entry:
	default:
		if r.dropped.Add(1) == 1 {
			r.log.Warn("journal queue full, dropping entries")
		}
	}
}

// Close stops accepting entries, flushes the queue and waits for the writer.
// HandleEvent must not be called after Close.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.queue) })
	<-r.done
	r.log.WithFields(logrus.Fields{
		"dropped": r.dropped.Load(),
		"failed":  r.failed.Load(),
	}).Info("journal recorder closed")
}

// Dropped returns the number of entries lost to a full queue or a failed write
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load() + r.failed.Load()
}

func (r *Recorder) run() {
	defer close(r.done)

	batch := make([]Entry, 0, constants.JournalBatchSize)
	for entry := range r.queue {
		batch = append(batch[:0], entry)
	fill:
		for len(batch) < constants.JournalBatchSize {
			select {
			case next, ok := <-r.queue:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}

		if err := r.writer.RecordBatch(batch); err != nil {
			r.failed.Add(int64(len(batch)))
			r.log.WithError(err).WithField("entries", len(batch)).Warn("journal write failed")
		}
	}
}
