package render

import (
	"sync"

	"github.com/lixenwraith/moodflight/core"
	"github.com/lixenwraith/moodflight/entity"
)

// Recorder is an in-memory presenter used headless and in tests.
// It keeps the most recent frames up to Keep (0 keeps every frame).
type Recorder struct {
	mu sync.Mutex

	viewport    core.Size
	viewportErr error
	drawErr     error

	Keep    int
	frames  [][]DrawRequest
	current []DrawRequest
	total   int
}

// NewRecorder creates a recorder reporting the given viewport
func NewRecorder(viewport core.Size) *Recorder {
	return &Recorder{viewport: viewport}
}

// SetViewport changes the reported size
func (r *Recorder) SetViewport(v core.Size) {
	r.mu.Lock()
	r.viewport = v
	r.mu.Unlock()
}

// FailViewport makes Viewport return err until cleared with nil
func (r *Recorder) FailViewport(err error) {
	r.mu.Lock()
	r.viewportErr = err
	r.mu.Unlock()
}

// FailDraw makes Draw return err until cleared with nil; requests are still recorded
func (r *Recorder) FailDraw(err error) {
	r.mu.Lock()
	r.drawErr = err
	r.mu.Unlock()
}

func (r *Recorder) Viewport() (core.Size, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewportErr != nil {
		return core.Size{}, r.viewportErr
	}
	return r.viewport, nil
}

func (r *Recorder) Draw(req DrawRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = append(r.current, req)
	return r.drawErr
}

func (r *Recorder) BeginFrame() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, r.current)
	r.current = nil
	r.total++
	if r.Keep > 0 && len(r.frames) > r.Keep {
		r.frames = r.frames[len(r.frames)-r.Keep:]
	}
}

// Frames returns the retained frames, oldest first
func (r *Recorder) Frames() [][]DrawRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]DrawRequest, len(r.frames))
	copy(out, r.frames)
	return out
}

// Last returns the most recent completed frame
func (r *Recorder) Last() []DrawRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// FrameCount returns the number of completed frames, including discarded ones
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// CountKind counts requests of kind k in frame
func CountKind(frame []DrawRequest, k entity.Kind) int {
	n := 0
	for _, req := range frame {
		if req.Kind == k {
			n++
		}
	}
	return n
}
