package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/lox/fillblanks/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain() *Renderer {
	return New(&bytes.Buffer{}, false)
}

func TestHand(t *testing.T) {
	r := plain()
	assert.Equal(t, " Your hand \n 1. a goat\n 2. regret", r.Hand([]string{"a goat", "regret"}))
	assert.Equal(t, "Your hand is empty.", r.Hand(nil))
}

func TestRoundStarted(t *testing.T) {
	r := plain()
	out := r.RoundStarted(server.RoundStartedData{Round: 2, Prompt: "{blank} and {blank}", RequiredPicks: 2, SoloMode: true})
	assert.Equal(t, " Round 2  (solo)\n{blank} and {blank}\nPick 2 cards.", out)
}

func TestRoundComplete(t *testing.T) {
	r := plain()
	out := r.RoundComplete(server.RoundCompleteData{
		Round:  1,
		Prompt: "Why {blank}?",
		Judge:  "alice",
		Entries: []server.SubmissionEntry{
			{Label: "A", Player: "bob", Filled: "Why bees?"},
			{Label: "B", Player: "carol", Filled: "Why not?"},
		},
	})
	assert.Equal(t, " Round 1 answers  alice picks the winner\nWhy {blank}?\nA) Why bees?\nB) Why not?", out)
}

func TestScores(t *testing.T) {
	r := plain()
	out := r.Scores([]server.ScoreEntry{
		{Player: "bob", Name: "bob", Points: 2},
		{Player: "npc:general:1", Name: "NPC 1", Points: 0},
	})
	assert.Equal(t, " Scores \nbob   2\nNPC 1 0", out)
	assert.Equal(t, "No scores yet.", r.Scores(nil))
}

func TestMessage(t *testing.T) {
	r := plain()

	msg, err := server.NewMessage(server.MessageTypeError, server.ErrorData{Code: "not_found", Message: "no game"}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Error (not_found): no game", r.Message(msg))

	msg, err = server.NewMessage(server.MessageTypeSoloMode, server.SoloModeData{Channel: "general", On: true}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Solo mode on in general.", r.Message(msg))

	msg, err = server.NewMessage(server.MessageTypeAuthResponse, server.AuthResponseData{Success: true}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, r.Message(msg))
}
