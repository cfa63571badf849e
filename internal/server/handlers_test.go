package server

import (
	"testing"

	"github.com/lox/fillblanks/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRound(t *testing.T) {
	srv := newTestServer(t)

	reply, err := srv.dispatch(alice, request(t, MessageTypeReset, ChannelData{Channel: "general"}))
	require.NoError(t, err)
	assert.Nil(t, reply)

	reply, err = srv.dispatch(bob, request(t, MessageTypeJoin, ChannelData{Channel: "general"}))
	require.NoError(t, err)
	assert.Equal(t, MessageTypeHand, reply.Type)
	hand := decode[HandData](t, reply)
	assert.Equal(t, "general", hand.Channel)
	assert.Len(t, hand.Cards, 10)

	reply, err = srv.dispatch(alice, request(t, MessageTypeStartRound, ChannelData{Channel: "general"}))
	require.NoError(t, err)
	assert.Nil(t, reply)

	reply, err = srv.dispatch(bob, request(t, MessageTypeSubmit, SubmitData{Channel: "general", Indices: []int{2}}))
	require.NoError(t, err)
	submitted := decode[SubmittedData](t, reply)
	assert.Equal(t, 1, submitted.Round)
	assert.True(t, submitted.Complete)
	assert.Equal(t, "I can't believe "+hand.Cards[2]+".", submitted.Filled)
	assert.Len(t, submitted.Hand, 10)

	reply, err = srv.dispatch(alice, request(t, MessageTypeJudgePick, JudgePickData{Channel: "general", Winner: "bob"}))
	require.NoError(t, err)
	assert.Nil(t, reply)

	reply, err = srv.dispatch(bob, request(t, MessageTypeGetScores, ChannelData{Channel: "general"}))
	require.NoError(t, err)
	scores := decode[ScoresData](t, reply)
	require.Len(t, scores.Scores, 2)
	assert.Equal(t, ScoreEntry{Player: "bob", Name: "bob", Points: 1}, scores.Scores[0])
	assert.Equal(t, ScoreEntry{Player: "alice", Name: "alice", Points: 0}, scores.Scores[1])
}

func TestDispatchErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		player game.PlayerID
		msg    *Message
		code   string
	}{
		{
			name:   "unknown type",
			player: alice,
			msg:    request(t, MessageType("shuffle"), ChannelData{Channel: "general"}),
			code:   "invalid_message",
		},
		{
			name:   "missing channel",
			player: alice,
			msg:    request(t, MessageTypeJoin, ChannelData{}),
			code:   "invalid_message",
		},
		{
			name:   "hand in unknown channel",
			player: alice,
			msg:    request(t, MessageTypeGetHand, ChannelData{Channel: "nowhere"}),
			code:   "not_found",
		},
		{
			name:   "submit in unknown channel",
			player: alice,
			msg:    request(t, MessageTypeSubmit, SubmitData{Channel: "nowhere", Indices: []int{0}}),
			code:   "not_found",
		},
		{
			name:   "malformed winner",
			player: alice,
			msg:    request(t, MessageTypeJudgePick, JudgePickData{Channel: "general", Winner: "npc:general:zero"}),
			code:   "invalid_message",
		},
		{
			name:   "start without players",
			player: alice,
			msg:    request(t, MessageTypeStartRound, ChannelData{Channel: "general"}),
			code:   "not_authorized",
		},
		{
			name:   "solo by non judge",
			player: bob,
			msg:    request(t, MessageTypeSetSolo, SetSoloData{Channel: "general", On: true}),
			code:   "not_authorized",
		},
		{
			name:   "solo in unknown channel",
			player: alice,
			msg:    request(t, MessageTypeSetSolo, SetSoloData{Channel: "elsewhere", On: true}),
			code:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := srv.dispatch(tt.player, tt.msg)
			require.Error(t, err)
			assert.Nil(t, reply)
			assert.Equal(t, tt.code, errorCode(err))
		})
	}

	_, ok := srv.Registry().Lookup("elsewhere")
	assert.False(t, ok, "a rejected set_solo must not create a session")
}

func TestDispatchStaleRoundID(t *testing.T) {
	srv := newTestServer(t)

	playRound := func() string {
		_, err := srv.dispatch(alice, request(t, MessageTypeReset, ChannelData{Channel: "general"}))
		require.NoError(t, err)
		_, err = srv.dispatch(bob, request(t, MessageTypeJoin, ChannelData{Channel: "general"}))
		require.NoError(t, err)
		_, err = srv.dispatch(alice, request(t, MessageTypeStartRound, ChannelData{Channel: "general"}))
		require.NoError(t, err)

		sess, ok := srv.Registry().Lookup("general")
		require.True(t, ok)
		roundID := sess.Summary().RoundID
		_, err = srv.dispatch(bob, request(t, MessageTypeSubmit, SubmitData{Channel: "general", RoundID: roundID, Indices: []int{0}}))
		require.NoError(t, err)
		return roundID
	}

	old := playRound()
	current := playRound()
	require.NotEqual(t, old, current)

	_, err := srv.dispatch(alice, request(t, MessageTypeJudgePick, JudgePickData{Channel: "general", RoundID: old, Winner: "bob"}))
	require.Error(t, err)
	assert.Equal(t, "not_found", errorCode(err))

	_, err = srv.dispatch(alice, request(t, MessageTypeJudgePick, JudgePickData{Channel: "general", RoundID: current, Winner: "bob"}))
	require.NoError(t, err)
}

func TestDispatchSoloMode(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.dispatch(alice, request(t, MessageTypeReset, ChannelData{Channel: "solo"}))
	require.NoError(t, err)

	reply, err := srv.dispatch(alice, request(t, MessageTypeSetSolo, SetSoloData{Channel: "solo", On: true}))
	require.NoError(t, err)
	assert.Equal(t, SoloModeData{Channel: "solo", On: true}, decode[SoloModeData](t, reply))

	_, err = srv.dispatch(alice, request(t, MessageTypeStartRound, ChannelData{Channel: "solo"}))
	require.NoError(t, err)

	reply, err = srv.dispatch(alice, request(t, MessageTypeSubmit, SubmitData{Channel: "solo", Indices: []int{0}}))
	require.NoError(t, err)
	assert.True(t, decode[SubmittedData](t, reply).Complete)

	reply, err = srv.dispatch(alice, request(t, MessageTypeJudgePick, JudgePickData{Channel: "solo", Winner: "npc:solo:1"}))
	require.NoError(t, err)
	assert.Nil(t, reply)

	sess, ok := srv.Registry().Lookup("solo")
	require.True(t, ok)
	scores := sess.Scores()
	require.NotEmpty(t, scores)
	assert.Equal(t, game.Simulated("solo", 1), scores[0].Player)
	assert.Equal(t, 1, scores[0].Points)
}

func TestDispatchLeaveAndScoresWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	reply, err := srv.dispatch(alice, request(t, MessageTypeLeave, ChannelData{Channel: "quiet"}))
	require.NoError(t, err)
	assert.Equal(t, LeftData{Channel: "quiet"}, decode[LeftData](t, reply))

	reply, err = srv.dispatch(alice, request(t, MessageTypeGetScores, ChannelData{Channel: "quiet"}))
	require.NoError(t, err)
	scores := decode[ScoresData](t, reply)
	assert.Empty(t, scores.Scores)

	_, ok := srv.Registry().Lookup("quiet")
	assert.False(t, ok, "read-only actions must not create sessions")
}
