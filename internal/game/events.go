package game

import "time"

// EventType represents a session event type with type safety
type EventType string

const (
	EventTypeSessionReset  EventType = "session_reset"
	EventTypeRoundStarted  EventType = "round_started"
	EventTypeRoundComplete EventType = "round_complete"
	EventTypeRoundResolved EventType = "round_resolved"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is published to the session's subscriber after the action that
// caused it has released the session lock.
type Event interface {
	EventType() EventType
	Channel() string
	Timestamp() time.Time
}

// EventSubscriber receives session events.
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(Event)

// OnEvent calls f(event).
func (f EventSubscriberFunc) OnEvent(event Event) { f(event) }

// SessionResetEvent is published when a new game starts in a channel.
type SessionResetEvent struct {
	Summary
	timestamp time.Time
}

func (e SessionResetEvent) EventType() EventType { return EventTypeSessionReset }
func (e SessionResetEvent) Channel() string      { return e.Summary.Channel }
func (e SessionResetEvent) Timestamp() time.Time { return e.timestamp }

// RoundStartedEvent is published when a prompt is drawn.
type RoundStartedEvent struct {
	RoundStart
	channel   string
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Channel() string      { return e.channel }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// RoundCompleteEvent is published once per round when every required
// submission is in. It carries the anonymised entries for the judge.
type RoundCompleteEvent struct {
	Reveal
	timestamp time.Time
}

func (e RoundCompleteEvent) EventType() EventType { return EventTypeRoundComplete }
func (e RoundCompleteEvent) Channel() string      { return e.Reveal.Channel }
func (e RoundCompleteEvent) Timestamp() time.Time { return e.timestamp }

// RoundResolvedEvent is published when the judge picks a winner.
type RoundResolvedEvent struct {
	Resolution
	timestamp time.Time
}

func (e RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }
func (e RoundResolvedEvent) Channel() string      { return e.Resolution.Channel }
func (e RoundResolvedEvent) Timestamp() time.Time { return e.timestamp }
