package game

import "slices"

// ensureSimulated seats the configured number of simulated players, each
// with a score entry and a full hand.
func (s *Session) ensureSimulated() {
	for n := 1; n <= s.rules.SimulatedPlayers; n++ {
		id := Simulated(s.channel, n)
		s.addPlayer(id)
		s.topUp(id)
	}
}

// removeSimulated drops every simulated player together with its hand,
// submission and score.
func (s *Session) removeSimulated() {
	for _, p := range slices.Clone(s.players) {
		if p.IsSimulated() {
			s.removePlayer(p)
			s.dropScore(p)
		}
	}
}

// simulateSubmissions has every simulated player play the first cards of its
// hand. It runs inside StartRound so the round only ever waits on humans.
func (s *Session) simulateSubmissions() {
	picks := clamp(s.requiredPicks, 1, s.rules.MaxPicks)
	for _, p := range s.players {
		if !p.IsSimulated() {
			continue
		}
		hand := s.topUp(p)
		n := min(picks, len(hand))
		if n == 0 {
			continue
		}

		chosen := slices.Clone(hand[:n])
		s.hands[p] = slices.Clone(hand[n:])
		s.recordSubmission(p, chosen)
		s.topUp(p)
	}
}
