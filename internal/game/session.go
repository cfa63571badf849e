package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fillblanks/internal/deck"
)

// Session is the game state of one channel. Every exported method is an
// atomic action: it holds the session lock for its whole mutation and
// publishes resulting events only after releasing it.
type Session struct {
	mu sync.Mutex

	channel    string
	source     *deck.Source
	rules      Rules
	rng        *rand.Rand
	clock      quartz.Clock
	logger     *log.Logger
	subscriber EventSubscriber
	pending    []Event

	players       []PlayerID
	scores        map[PlayerID]int
	scoreOrder    []PlayerID
	judge         PlayerID
	round         int
	roundID       string
	phase         Phase
	blackPile     *deck.Pile
	whitePile     *deck.Pile
	hands         map[PlayerID][]string
	submissions   map[PlayerID][]string
	submitOrder   []PlayerID
	prompt        string
	requiredPicks int
	soloMode      bool

	createdAt time.Time
	updatedAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithRules overrides the default rules. Unset fields keep their defaults.
func WithRules(r Rules) Option {
	return func(s *Session) { s.rules = r.withDefaults() }
}

// WithRNG sets the random source used for shuffling.
func WithRNG(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithClock sets the clock used for timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSubscriber registers the receiver of session events.
func WithSubscriber(sub EventSubscriber) Option {
	return func(s *Session) { s.subscriber = sub }
}

// NewSession creates an empty lobby for channel drawing from source.
func NewSession(channel string, source *deck.Source, opts ...Option) *Session {
	s := &Session{
		channel: channel,
		source:  source,
		rules:   DefaultRules(),
		clock:   quartz.NewReal(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.source == nil {
		s.source = &deck.Source{}
	}
	s.logger = s.logger.With("channel", channel)
	s.createdAt = s.clock.Now()
	s.clear()
	return s
}

// clear puts the session back into a fresh lobby with new piles.
func (s *Session) clear() {
	s.players = nil
	s.scores = make(map[PlayerID]int)
	s.scoreOrder = nil
	s.judge = PlayerID{}
	s.round = 0
	s.roundID = ""
	s.phase = PhaseLobby
	s.blackPile = deck.NewPile(s.source.Prompts, s.rng)
	s.whitePile = deck.NewPile(s.source.Answers, s.rng)
	s.hands = make(map[PlayerID][]string)
	s.submissions = make(map[PlayerID][]string)
	s.submitOrder = nil
	s.prompt = ""
	s.requiredPicks = 1
	s.soloMode = false
	s.updatedAt = s.clock.Now()
}

// transact runs fn as one atomic action and then publishes whatever events
// fn queued.
func (s *Session) transact(fn func() error) error {
	events, err := func() ([]Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = nil

		err := fn()
		events := s.pending
		s.pending = nil
		if err != nil {
			return nil, err
		}
		s.updatedAt = s.clock.Now()
		return events, nil
	}()

	if s.subscriber != nil {
		for _, ev := range events {
			s.subscriber.OnEvent(ev)
		}
	}
	return err
}

func (s *Session) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

// Channel returns the channel key of the session.
func (s *Session) Channel() string { return s.channel }

// Summary is a point in time view of a session.
type Summary struct {
	Channel       string
	Judge         PlayerID
	Players       []PlayerID
	Phase         Phase
	Round         int
	RoundID       string
	SoloMode      bool
	Prompt        string
	RequiredPicks int
	Submitted     int
	Scores        []Score
	UpdatedAt     time.Time
}

// Summary returns the current state of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

func (s *Session) summary() Summary {
	return Summary{
		Channel:       s.channel,
		Judge:         s.judge,
		Players:       slices.Clone(s.players),
		Phase:         s.phase,
		Round:         s.round,
		RoundID:       s.roundID,
		SoloMode:      s.soloMode,
		Prompt:        s.prompt,
		RequiredPicks: s.requiredPicks,
		Submitted:     len(s.submitOrder),
		Scores:        s.scoreTable(),
		UpdatedAt:     s.updatedAt,
	}
}

// Reset starts a new game: piles, players, hands and scores are discarded
// and caller becomes the only player and the judge.
func (s *Session) Reset(caller PlayerID) (Summary, error) {
	var out Summary
	err := s.transact(func() error {
		if caller.Kind() != KindReal {
			return fmt.Errorf("%w: only a real player can start a game", ErrNotAuthorized)
		}

		s.clear()
		s.addPlayer(caller)
		s.judge = caller
		s.topUp(caller)

		out = s.summary()
		s.emit(SessionResetEvent{Summary: out, timestamp: s.clock.Now()})
		s.logger.Info("Game started", "judge", caller)
		return nil
	})
	return out, err
}

// SetSoloMode turns solo mode on or off. Only the judge may toggle it.
// Turning it on seats the simulated players; turning it off removes them
// along with their hands, submissions and scores.
func (s *Session) SetSoloMode(caller PlayerID, on bool) (bool, error) {
	var out bool
	err := s.transact(func() error {
		if s.judge.IsZero() || caller != s.judge {
			return fmt.Errorf("%w: only the judge can toggle solo mode", ErrNotAuthorized)
		}

		s.soloMode = on
		if on {
			s.ensureSimulated()
		} else {
			s.removeSimulated()
			s.completeIfCollected()
		}
		out = s.soloMode
		s.logger.Info("Solo mode changed", "solo", on)
		return nil
	})
	return out, err
}

// Join adds a player and returns their hand.
func (s *Session) Join(p PlayerID) ([]string, error) {
	var out []string
	err := s.transact(func() error {
		if p.Kind() != KindReal {
			return fmt.Errorf("%w: simulated players cannot join", ErrNotAuthorized)
		}
		s.addPlayer(p)
		out = slices.Clone(s.topUp(p))
		s.logger.Debug("Player joined", "player", p, "players", len(s.players))
		return nil
	})
	return out, err
}

// Leave removes a player, their hand and any pending submission. Scores are
// kept. A judge who leaves vacates the judge seat.
func (s *Session) Leave(p PlayerID) error {
	return s.transact(func() error {
		s.removePlayer(p)
		if s.judge == p {
			s.judge = PlayerID{}
		}
		s.completeIfCollected()
		s.logger.Debug("Player left", "player", p, "players", len(s.players))
		return nil
	})
}

// Hand returns a joined player's hand, topped up to the hand size.
func (s *Session) Hand(p PlayerID) ([]string, error) {
	var out []string
	err := s.transact(func() error {
		if !s.hasPlayer(p) {
			return fmt.Errorf("%w: join the game first", ErrPreconditionFailed)
		}
		out = slices.Clone(s.topUp(p))
		return nil
	})
	return out, err
}

func (s *Session) hasPlayer(p PlayerID) bool {
	return slices.Contains(s.players, p)
}

// addPlayer seats p if needed and makes sure it has a score entry.
func (s *Session) addPlayer(p PlayerID) {
	if !s.hasPlayer(p) {
		s.players = append(s.players, p)
	}
	if _, ok := s.scores[p]; !ok {
		s.scores[p] = 0
		s.scoreOrder = append(s.scoreOrder, p)
	}
}

func (s *Session) removePlayer(p PlayerID) {
	s.players = slices.DeleteFunc(s.players, func(q PlayerID) bool { return q == p })
	delete(s.hands, p)
	s.dropSubmission(p)
}

func (s *Session) dropScore(p PlayerID) {
	delete(s.scores, p)
	s.scoreOrder = slices.DeleteFunc(s.scoreOrder, func(q PlayerID) bool { return q == p })
}

// toppedUpLen reports how many cards p would hold after topUp, without
// drawing anything.
func (s *Session) toppedUpLen(p PlayerID) int {
	n := len(s.hands[p])
	if n < s.rules.HandSize && (!s.whitePile.IsEmpty() || s.whitePile.SourceLen() > 0) {
		return s.rules.HandSize
	}
	return n
}

// topUp replenishes p's hand to the hand size and returns it.
func (s *Session) topUp(p PlayerID) []string {
	hand := replenish(s.hands[p], s.whitePile, s.rules.HandSize)
	s.hands[p] = hand
	return hand
}
