package server

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/game"
	"github.com/lox/fillblanks/internal/randutil"
)

// Registry holds the process-wide set of sessions keyed by channel. Sessions
// are created on first use and live until the process exits.
type Registry struct {
	logger     *log.Logger
	mu         sync.RWMutex
	sessions   map[string]*game.Session
	source     *deck.Source
	rules      game.Rules
	seed       int64
	clock      quartz.Clock
	subscriber game.EventSubscriber
}

// NewRegistry constructs an empty registry. Every session draws from source
// and gets its own generator derived from seed and its channel key.
func NewRegistry(logger *log.Logger, source *deck.Source, rules game.Rules, seed int64, clock quartz.Clock, subscriber game.EventSubscriber) *Registry {
	return &Registry{
		logger:     logger.WithPrefix("registry"),
		sessions:   make(map[string]*game.Session),
		source:     source,
		rules:      rules,
		seed:       seed,
		clock:      clock,
		subscriber: subscriber,
	}
}

// Ensure returns the session for channel, creating an empty lobby if the
// channel has never been used.
func (r *Registry) Ensure(channel string) *game.Session {
	if s, ok := r.Lookup(channel); ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[channel]; ok {
		return s
	}

	opts := []game.Option{
		game.WithRules(r.rules),
		game.WithRNG(randutil.ForKey(r.seed, channel)),
		game.WithClock(r.clock),
		game.WithLogger(r.logger.WithPrefix("session")),
	}
	if r.subscriber != nil {
		opts = append(opts, game.WithSubscriber(r.subscriber))
	}

	s := game.NewSession(channel, r.source, opts...)
	r.sessions[channel] = s
	r.logger.Debug("Created session", "channel", channel, "sessions", len(r.sessions))
	return s
}

// Lookup retrieves an existing session by channel.
func (r *Registry) Lookup(channel string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[channel]
	return s, ok
}

// Channels returns the keys of every known session in sorted order.
func (r *Registry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sessions))
	for ch := range r.sessions {
		out = append(out, ch)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
