package server

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/game"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testSource() *deck.Source {
	answers := make([]string, 40)
	for i := range answers {
		answers[i] = fmt.Sprintf("answer %d", i)
	}
	return &deck.Source{
		Prompts: []string{"I can't believe {blank}."},
		Answers: answers,
	}
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{WithSeed(1), WithClock(quartz.NewMock(t))}
	return NewServer(testLogger(), testSource(), append(base, opts...)...)
}

func request(t *testing.T, typ MessageType, data any) *Message {
	t.Helper()
	msg, err := NewMessage(typ, data, quartz.NewMock(t).Now())
	require.NoError(t, err)
	return msg
}

func decode[T any](t *testing.T, msg *Message) T {
	t.Helper()
	require.NotNil(t, msg)
	var v T
	require.NoError(t, msg.Decode(&v))
	return v
}

var (
	alice = game.Real("alice")
	bob   = game.Real("bob")
)
