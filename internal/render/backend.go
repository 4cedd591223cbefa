package render

import (
	"sync"

	"go.uber.org/zap"
)

// Backend consumes built frames. Submit must not keep Commands past the
// call unless it copies them.
type Backend interface {
	Submit(f Frame) error
}

// Recorder keeps the most recent frame and a submit count.
type Recorder struct {
	mu     sync.Mutex
	last   Frame
	frames int
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Submit(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.Commands = append([]DrawCommand(nil), f.Commands...)
	r.last = f
	r.frames++
	return nil
}

// Last returns the most recently submitted frame.
func (r *Recorder) Last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// LogBackend writes a debug line per frame.
type LogBackend struct {
	log *zap.Logger
}

func NewLogBackend(log *zap.Logger) *LogBackend {
	return &LogBackend{log: log}
}

func (b *LogBackend) Submit(f Frame) error {
	if ce := b.log.Check(zap.DebugLevel, "frame submitted"); ce != nil {
		ce.Write(
			zap.Uint64("frame", f.Index),
			zap.Int("draws", len(f.Commands)),
			zap.Stringer("camera", f.Camera),
		)
	}
	return nil
}

// New returns the backend named in config ("log" or "record").
func New(name string, log *zap.Logger) Backend {
	if name == "record" {
		return NewRecorder()
	}
	return NewLogBackend(log)
}
