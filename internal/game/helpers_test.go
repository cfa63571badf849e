package game

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/randutil"
)

var (
	alice = Real("alice")
	bob   = Real("bob")
	carol = Real("carol")
	dave  = Real("dave")
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func answers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("answer %d", i)
	}
	return out
}

func testSource(prompts ...string) *deck.Source {
	if len(prompts) == 0 {
		prompts = []string{"I can't believe {blank}."}
	}
	return &deck.Source{Prompts: prompts, Answers: answers(40)}
}

// eventRecorder collects published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.EventType() == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(t EventType) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType() == t {
			return r.events[i]
		}
	}
	return nil
}

func newTestSession(t *testing.T, src *deck.Source, opts ...Option) (*Session, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	base := []Option{
		WithRNG(randutil.New(1)),
		WithClock(quartz.NewMock(t)),
		WithLogger(testLogger()),
		WithSubscriber(rec),
	}
	return NewSession("general", src, append(base, opts...)...), rec
}
