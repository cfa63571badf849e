package game

import (
	"cmp"
	"fmt"
	"slices"
)

// Score is one row of a score table.
type Score struct {
	Player PlayerID
	Points int
}

// Resolution is the outcome of a judge pick.
type Resolution struct {
	Channel  string
	Round    int
	RoundID  string
	Winner   PlayerID
	Cards    []string
	Filled   string
	Scores   []Score
	SoloMode bool
}

// JudgePick awards the round to winner. Only the judge may pick, only while
// judging, and only a player with a submission this round can win. roundID
// may be empty to mean the current round; a stale round is rejected as not
// found.
func (s *Session) JudgePick(caller PlayerID, roundID string, winner PlayerID) (Resolution, error) {
	var out Resolution
	err := s.transact(func() error {
		if s.phase != PhaseJudging {
			return fmt.Errorf("%w: not in judging phase", ErrInvalidPhase)
		}
		if s.judge.IsZero() || caller != s.judge {
			return fmt.Errorf("%w: only the judge can pick", ErrNotAuthorized)
		}
		if roundID != "" && roundID != s.roundID {
			return fmt.Errorf("%w: round %s is no longer active", ErrNotFound, roundID)
		}
		cards, ok := s.submissions[winner]
		if !ok {
			return fmt.Errorf("%w: %s has no submission this round", ErrNotFound, winner.DisplayName())
		}

		s.addPlayer(winner)
		s.scores[winner]++

		out = Resolution{
			Channel:  s.channel,
			Round:    s.round,
			RoundID:  s.roundID,
			Winner:   winner,
			Cards:    slices.Clone(cards),
			Filled:   Fill(s.prompt, s.rules.BlankMarker, cards),
			Scores:   s.scoreTable(),
			SoloMode: s.soloMode,
		}

		s.phase = PhaseLobby
		s.prompt = ""
		s.requiredPicks = 1
		s.clearSubmissions()

		s.emit(RoundResolvedEvent{Resolution: out, timestamp: s.clock.Now()})
		s.logger.Info("Round resolved", "round", out.Round, "winner", winner, "points", s.scores[winner])
		return nil
	})
	return out, err
}

// Scores returns the score table ordered by descending points. Ties keep
// the order in which players first scored an entry.
func (s *Session) Scores() []Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreTable()
}

func (s *Session) scoreTable() []Score {
	out := make([]Score, 0, len(s.scoreOrder))
	for _, p := range s.scoreOrder {
		out = append(out, Score{Player: p, Points: s.scores[p]})
	}
	slices.SortStableFunc(out, func(a, b Score) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return out
}
