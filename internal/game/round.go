package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// RoundStart describes a freshly opened round.
type RoundStart struct {
	Round         int
	RoundID       string
	Prompt        string
	RequiredPicks int
	PlayerCount   int
	SoloMode      bool
	StartedAt     time.Time
}

// SubmitResult is returned privately to the submitting player.
type SubmitResult struct {
	Round    int
	Filled   string
	Complete bool
	Hand     []string
}

// RevealEntry is one anonymised submission shown to the judge.
type RevealEntry struct {
	Label  string
	Player PlayerID
	Cards  []string
	Filled string
}

// Reveal lists every submission of a completed round in submission order.
type Reveal struct {
	Channel string
	Round   int
	RoundID string
	Prompt  string
	Judge   PlayerID
	Entries []RevealEntry
}

// StartRound draws a prompt and opens submissions. Outside solo mode only
// the judge may start a round and at least MinPlayers must be seated. In solo
// mode the caller is seated automatically and the simulated players submit
// straight away. A round still in progress is abandoned.
func (s *Session) StartRound(caller PlayerID) (RoundStart, error) {
	var out RoundStart
	err := s.transact(func() error {
		if caller.Kind() != KindReal {
			return fmt.Errorf("%w: simulated players cannot start rounds", ErrNotAuthorized)
		}

		if s.soloMode {
			s.addPlayer(caller)
			if s.judge.IsZero() {
				s.judge = caller
			}
			s.ensureSimulated()
		} else {
			if s.judge.IsZero() || caller != s.judge {
				return fmt.Errorf("%w: only the judge can start a round", ErrNotAuthorized)
			}
			if len(s.players) < s.rules.MinPlayers {
				return fmt.Errorf("%w: need at least %d players or solo mode", ErrPreconditionFailed, s.rules.MinPlayers)
			}
		}

		s.openRound()
		if s.soloMode {
			s.simulateSubmissions()
		}

		out = RoundStart{
			Round:         s.round,
			RoundID:       s.roundID,
			Prompt:        s.prompt,
			RequiredPicks: s.requiredPicks,
			PlayerCount:   len(s.players),
			SoloMode:      s.soloMode,
			StartedAt:     s.clock.Now(),
		}
		s.emit(RoundStartedEvent{RoundStart: out, channel: s.channel, timestamp: out.StartedAt})
		s.logger.Info("Round started",
			"round", s.round,
			"picks", s.requiredPicks,
			"players", len(s.players),
			"solo", s.soloMode)
		return nil
	})
	return out, err
}

// openRound draws the next prompt and deals every seated player back up to
// a full hand.
func (s *Session) openRound() {
	s.round++
	s.roundID = uuid.NewString()
	s.phase = PhaseCollecting
	s.clearSubmissions()

	if s.blackPile.IsEmpty() {
		s.blackPile.Reshuffle()
	}
	s.prompt = s.rules.DefaultPrompt
	if drawn := s.blackPile.Draw(1); len(drawn) == 1 {
		s.prompt = drawn[0]
	}
	s.requiredPicks = RequiredPicks(s.prompt, s.rules.BlankMarker, s.rules.MaxPicks)

	for _, p := range s.players {
		s.topUp(p)
	}
}

// Submit plays the cards at indices (0-based into the player's hand) for
// the current round. roundID may be empty to mean the current round; any
// other value must match it.
func (s *Session) Submit(p PlayerID, roundID string, indices []int) (SubmitResult, error) {
	var out SubmitResult
	err := s.transact(func() error {
		if s.phase != PhaseCollecting || s.prompt == "" {
			return fmt.Errorf("%w: no round is collecting submissions", ErrInvalidPhase)
		}
		if roundID != "" && roundID != s.roundID {
			return fmt.Errorf("%w: round %s is no longer active", ErrNotFound, roundID)
		}
		if p.Kind() != KindReal {
			return fmt.Errorf("%w: simulated players submit automatically", ErrNotAuthorized)
		}
		joined := s.hasPlayer(p)
		if !joined && !s.soloMode {
			return fmt.Errorf("%w: join the game first", ErrPreconditionFailed)
		}
		if _, ok := s.submissions[p]; ok {
			return fmt.Errorf("%w: you already submitted this round", ErrAlreadyActed)
		}
		if !s.soloMode && p == s.judge {
			return fmt.Errorf("%w: the judge does not submit", ErrNotAuthorized)
		}

		if len(indices) != s.requiredPicks {
			return fmt.Errorf("%w: pick exactly %d card(s)", ErrPreconditionFailed, s.requiredPicks)
		}
		size := s.toppedUpLen(p)
		if size < s.requiredPicks {
			return fmt.Errorf("%w: not enough cards in your hand", ErrPreconditionFailed)
		}
		if err := checkPicks(size, indices); err != nil {
			return err
		}

		if !joined {
			s.addPlayer(p)
		}
		chosen, rest, err := takeCards(s.topUp(p), indices)
		if err != nil {
			return err
		}

		s.hands[p] = rest
		s.recordSubmission(p, chosen)
		out = SubmitResult{
			Round:    s.round,
			Filled:   Fill(s.prompt, s.rules.BlankMarker, chosen),
			Complete: s.completeIfCollected(),
			Hand:     slices.Clone(s.topUp(p)),
		}
		s.logger.Debug("Submission recorded", "player", p, "round", s.round, "complete", out.Complete)
		return nil
	})
	return out, err
}

func (s *Session) recordSubmission(p PlayerID, cards []string) {
	s.submissions[p] = cards
	s.submitOrder = append(s.submitOrder, p)
}

func (s *Session) dropSubmission(p PlayerID) {
	if _, ok := s.submissions[p]; !ok {
		return
	}
	delete(s.submissions, p)
	s.submitOrder = slices.DeleteFunc(s.submitOrder, func(q PlayerID) bool { return q == p })
}

func (s *Session) clearSubmissions() {
	s.submissions = make(map[PlayerID][]string)
	s.submitOrder = nil
}

// requiredSubmitters returns the players the round waits on: everyone but
// the judge normally, every real player in solo mode.
func (s *Session) requiredSubmitters() []PlayerID {
	out := make([]PlayerID, 0, len(s.players))
	for _, p := range s.players {
		if s.soloMode {
			if !p.IsSimulated() {
				out = append(out, p)
			}
			continue
		}
		if p != s.judge {
			out = append(out, p)
		}
	}
	return out
}

// completeIfCollected moves a collecting round to judging once every
// required submitter is in. It reports whether the transition happened.
func (s *Session) completeIfCollected() bool {
	if s.phase != PhaseCollecting || len(s.submitOrder) == 0 {
		return false
	}
	required := s.requiredSubmitters()
	if len(required) == 0 {
		return false
	}
	for _, p := range required {
		if _, ok := s.submissions[p]; !ok {
			return false
		}
	}

	s.phase = PhaseJudging
	reveal := s.reveal()
	s.emit(RoundCompleteEvent{Reveal: reveal, timestamp: s.clock.Now()})
	s.logger.Info("Round complete", "round", s.round, "submissions", len(reveal.Entries))
	return true
}

func (s *Session) reveal() Reveal {
	r := Reveal{
		Channel: s.channel,
		Round:   s.round,
		RoundID: s.roundID,
		Prompt:  s.prompt,
		Judge:   s.judge,
		Entries: make([]RevealEntry, 0, len(s.submitOrder)),
	}
	for i, p := range s.submitOrder {
		cards := s.submissions[p]
		r.Entries = append(r.Entries, RevealEntry{
			Label:  label(i),
			Player: p,
			Cards:  slices.Clone(cards),
			Filled: Fill(s.prompt, s.rules.BlankMarker, cards),
		})
	}
	return r
}

// label returns A..Z, then AA, AB and so on.
func label(i int) string {
	out := ""
	for i >= 0 {
		out = string(rune('A'+i%26)) + out
		i = i/26 - 1
	}
	return out
}
