package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	answers := make([]string, 40)
	for i := range answers {
		answers[i] = fmt.Sprintf("answer %d", i)
	}
	src := &deck.Source{Prompts: []string{"{blank} and {blank}."}, Answers: answers}

	srv := server.NewServer(log.New(io.Discard), src, server.WithSeed(3))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func connect(t *testing.T, url, id string) *Client {
	t.Helper()
	c := NewClient(url, log.New(io.Discard))
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Auth(ctx, id))
	assert.Equal(t, id, c.PlayerID())
	return c
}

func TestClientRound(t *testing.T) {
	url := startServer(t)
	alice := connect(t, url, "alice")
	bob := connect(t, url, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := alice.Reset(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Judge)

	hand, err := bob.Join(ctx, "general")
	require.NoError(t, err)
	require.Len(t, hand, 10)

	started, err := alice.StartRound(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, 2, started.RequiredPicks)

	submitted, err := bob.Submit(ctx, "general", started.RoundID, []int{3, 1})
	require.NoError(t, err)
	assert.True(t, submitted.Complete)
	assert.Equal(t, hand[3]+" and "+hand[1]+".", submitted.Filled)

	resolved, err := alice.JudgePick(ctx, "general", started.RoundID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", resolved.Winner)
	assert.Equal(t, started.RoundID, resolved.RoundID)

	scores, err := bob.Scores(ctx, "general")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, server.ScoreEntry{Player: "bob", Name: "bob", Points: 1}, scores[0])

	require.NoError(t, bob.Leave(ctx, "general"))
	_, err = bob.Hand(ctx, "general")
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "precondition_failed", respErr.Code)
}

func TestClientErrorReply(t *testing.T) {
	url := startServer(t)
	bob := connect(t, url, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := bob.Reset(ctx, "general")
	require.NoError(t, err)
	_, err = bob.SetSolo(ctx, "general", true)
	require.NoError(t, err)

	carol := connect(t, url, "carol")
	_, err = carol.SetSolo(ctx, "general", false)
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "not_authorized", respErr.Code)
}

func TestClientEventHandlers(t *testing.T) {
	url := startServer(t)
	alice := connect(t, url, "alice")
	bob := connect(t, url, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := bob.Join(ctx, "general")
	require.NoError(t, err)

	seen := make(chan *server.Message, 4)
	bob.AddEventHandler(server.MessageTypeSessionReset, func(msg *server.Message) { seen <- msg })

	_, err = alice.Reset(ctx, "general")
	require.NoError(t, err)

	select {
	case msg := <-seen:
		var data server.SessionData
		require.NoError(t, msg.Decode(&data))
		assert.Equal(t, "alice", data.Judge)
	case <-ctx.Done():
		t.Fatal("bob never saw the reset broadcast")
	}
}

func TestClientRequestSettling(t *testing.T) {
	url := startServer(t)
	alice := connect(t, url, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// A private reply settles the request even when a broadcast type is given.
	_, err := alice.Request(ctx, server.MessageTypeGetScores, server.ChannelData{Channel: "general"}, server.MessageTypeRoundStarted)
	require.NoError(t, err, "the private reply still settles the request")

	_, err = alice.Request(ctx, server.MessageType("noop"), nil, "")
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "invalid_message", respErr.Code)
}
