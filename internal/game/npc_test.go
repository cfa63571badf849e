package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoloRound(t *testing.T) {
	s, rec := newTestSession(t, testSource("{blank} is why I left."))
	_, err := s.Reset(alice)
	require.NoError(t, err)

	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)
	npc1, npc2 := Simulated("general", 1), Simulated("general", 2)
	assert.Equal(t, 0, s.scores[npc1])
	assert.Equal(t, 0, s.scores[npc2])

	hand1 := append([]string(nil), s.hands[npc1]...)

	start, err := s.StartRound(alice)
	require.NoError(t, err)
	assert.True(t, start.SoloMode)
	assert.Equal(t, 3, start.PlayerCount)

	// simulated players have already played the front of their hands
	require.Contains(t, s.submissions, npc1)
	require.Contains(t, s.submissions, npc2)
	assert.Equal(t, hand1[:1], s.submissions[npc1])
	assert.Len(t, s.hands[npc1], 10)
	assert.Equal(t, PhaseCollecting, s.Summary().Phase)
	assert.Equal(t, 0, rec.count(EventTypeRoundComplete))

	// the judge plays too in solo mode, and completes the round
	res, err := s.Submit(alice, start.RoundID, []int{0})
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, PhaseJudging, s.Summary().Phase)

	ev, ok := rec.last(EventTypeRoundComplete).(RoundCompleteEvent)
	require.True(t, ok)
	require.Len(t, ev.Entries, 3)
	assert.Equal(t, npc1, ev.Entries[0].Player)
	assert.Equal(t, npc2, ev.Entries[1].Player)
	assert.Equal(t, alice, ev.Entries[2].Player)
	assert.Equal(t, "C", ev.Entries[2].Label)

	resolution, err := s.JudgePick(alice, start.RoundID, npc2)
	require.NoError(t, err)
	assert.Equal(t, npc2, resolution.Winner)
	assert.Equal(t, Score{Player: npc2, Points: 1}, resolution.Scores[0])
}

func TestSoloStartSeatsCallerAndSimulatedPlayers(t *testing.T) {
	s, _ := newTestSession(t, testSource())
	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)

	// remove the simulated players behind the engine's back; StartRound
	// seats them again
	s.mu.Lock()
	s.removeSimulated()
	s.mu.Unlock()

	start, err := s.StartRound(alice)
	require.NoError(t, err)
	assert.Equal(t, 3, start.PlayerCount)
	assert.Len(t, s.submissions, 2)
}

func TestSoloSubmitSeatsNewPlayer(t *testing.T) {
	s, _ := newTestSession(t, testSource())
	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)
	_, err = s.StartRound(alice)
	require.NoError(t, err)

	res, err := s.Submit(bob, "", []int{0})
	require.NoError(t, err)
	assert.False(t, res.Complete, "alice still has to play")
	assert.Contains(t, s.Summary().Players, bob)
	assert.Equal(t, 0, s.scores[bob])

	res, err = s.Submit(alice, "", []int{0})
	require.NoError(t, err)
	assert.True(t, res.Complete)
}

func TestSoloRejectedSubmitDoesNotSeat(t *testing.T) {
	s, _ := newTestSession(t, testSource())
	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)
	_, err = s.StartRound(alice)
	require.NoError(t, err)
	whiteLeft := s.whitePile.Len()

	for _, indices := range [][]int{{99}, {-1}} {
		_, err = s.Submit(carol, "", indices)
		assert.ErrorIs(t, err, ErrPreconditionFailed)
	}
	assert.NotContains(t, s.Summary().Players, carol)
	assert.NotContains(t, s.hands, carol)
	assert.NotContains(t, s.scores, carol)
	assert.Equal(t, whiteLeft, s.whitePile.Len(), "no cards drawn for a rejected submit")

	res, err := s.Submit(alice, "", []int{0})
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, PhaseJudging, s.Summary().Phase)
}

func TestSimulatedPicksFollowPrompt(t *testing.T) {
	s, _ := newTestSession(t, testSource("{blank} {blank} {blank} {blank}"))
	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)

	start, err := s.StartRound(alice)
	require.NoError(t, err)
	require.Equal(t, 3, start.RequiredPicks)
	assert.Len(t, s.submissions[Simulated("general", 1)], 3)
	assert.Len(t, s.hands[Simulated("general", 1)], 10)
}

func TestSimulatedPlayersWithEmptyAnswerDeck(t *testing.T) {
	s, _ := newTestSession(t, testSource())
	s.source.Answers = nil
	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.SetSoloMode(alice, true)
	require.NoError(t, err)

	_, err = s.StartRound(alice)
	require.NoError(t, err)
	assert.Empty(t, s.submissions)

	_, err = s.Submit(alice, "", []int{0})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}
