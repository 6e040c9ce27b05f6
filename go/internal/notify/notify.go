package notify

import (
	"context"
	"sync"

	"github.com/mcdev12/matchday/go/internal/workflow"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogNotifier writes workflow outcomes to the global logger
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n workflow.Notification) {
	log.WithLevel(zerologLevel(n.Level)).
		Str("notification_level", string(n.Level)).
		Msg(n.Message)
}

func zerologLevel(l workflow.Level) zerolog.Level {
	switch l {
	case workflow.LevelError:
		return zerolog.ErrorLevel
	case workflow.LevelWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Recorder buffers notifications until drained
type Recorder struct {
	mu      sync.Mutex
	pending []workflow.Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(ctx context.Context, n workflow.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, n)
}

// Drain returns and clears the buffered notifications
func (r *Recorder) Drain() []workflow.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// Fanout delivers every notification to each notifier in order
type Fanout []workflow.Notifier

func (f Fanout) Notify(ctx context.Context, n workflow.Notification) {
	for _, notifier := range f {
		notifier.Notify(ctx, n)
	}
}
