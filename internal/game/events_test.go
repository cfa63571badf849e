package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsPublishedInOrder(t *testing.T) {
	s, rec := newTestSession(t, testSource())

	_, err := s.Reset(alice)
	require.NoError(t, err)
	_, err = s.Join(bob)
	require.NoError(t, err)
	start, err := s.StartRound(alice)
	require.NoError(t, err)
	_, err = s.Submit(bob, start.RoundID, []int{0})
	require.NoError(t, err)
	_, err = s.JudgePick(alice, start.RoundID, bob)
	require.NoError(t, err)

	var types []EventType
	for _, ev := range rec.events {
		types = append(types, ev.EventType())
		assert.Equal(t, "general", ev.Channel())
	}
	assert.Equal(t, []EventType{
		EventTypeSessionReset,
		EventTypeRoundStarted,
		EventTypeRoundComplete,
		EventTypeRoundResolved,
	}, types)
}

func TestRejectedActionPublishesNothing(t *testing.T) {
	s, rec := newTestSession(t, testSource())

	_, err := s.StartRound(alice)
	require.ErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, rec.events)
}

func TestSubscriberMayCallBack(t *testing.T) {
	var s *Session
	var seen []Summary
	sub := EventSubscriberFunc(func(ev Event) {
		// The session lock is released before publishing.
		seen = append(seen, s.Summary())
	})
	s, _ = newTestSession(t, testSource(), WithSubscriber(sub))

	_, err := s.Reset(alice)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, alice, seen[0].Judge)
}

func TestRulesDefaults(t *testing.T) {
	r := Rules{HandSize: 5}.withDefaults()
	assert.Equal(t, 5, r.HandSize)
	assert.Equal(t, DefaultRules().MaxPicks, r.MaxPicks)
	assert.Equal(t, DefaultRules().SimulatedPlayers, r.SimulatedPlayers)
	assert.Equal(t, DefaultBlankMarker, r.BlankMarker)
	assert.Equal(t, DefaultRules().DefaultPrompt, r.DefaultPrompt)
}
