// Package game implements the fill-in-the-blank party game engine.
//
// A Session holds the whole state of one channel: the prompt and answer
// piles, the seated players with their private hands, the judge, the score
// table and the round currently in progress. Rounds move through three
// phases:
//
//	lobby -> collecting -> judging -> lobby
//
// StartRound draws a prompt and opens collection, Submit records a player's
// cards and flips the round to judging once every required player is in,
// and JudgePick awards the point and returns the session to the lobby.
//
// # Concurrency
//
// Each exported Session method is a single atomic action guarded by the
// session mutex. Events (RoundStartedEvent, RoundCompleteEvent and so on)
// are handed to the EventSubscriber after the lock is released, so a
// subscriber may call back into the session.
//
// # Solo Mode
//
// With solo mode on, simulated players (see Simulated) are seated next to the
// human and submit the first cards of their hand as soon as a round starts.
// The round then only waits on real players, the judge included.
//
// # Deterministic Testing
//
// Shuffles come from the *rand.Rand passed with WithRNG and timestamps from
// the quartz.Clock passed with WithClock:
//
//	s := game.NewSession("general", src,
//	    game.WithRNG(randutil.New(42)),
//	    game.WithClock(quartz.NewMock(t)))
package game
