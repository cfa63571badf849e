package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/game"
)

// Server is the websocket command gateway in front of the session registry.
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	registry    *Registry
	clock       quartz.Clock
	rules       game.Rules
	seed        int64
	httpServer  *http.Server
	closed      bool
}

// Option configures a Server.
type Option func(*Server)

// WithRules sets the rules every new session is created with.
func WithRules(rules game.Rules) Option {
	return func(s *Server) { s.rules = rules }
}

// WithSeed makes every session shuffle deterministically.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithClock sets the clock used for timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// NewServer creates a gateway serving games drawn from source.
func NewServer(logger *log.Logger, source *deck.Source, opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		rules:       game.DefaultRules(),
		seed:        time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry = NewRegistry(logger, source, s.rules, s.seed, s.clock, s)
	return s
}

// Registry exposes the session registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Handler returns the HTTP routes of the gateway.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/scores", s.handleScores)
	mux.HandleFunc("/channels", s.handleChannels)
	return mux
}

// Start serves the gateway on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr)
	return srv.ListenAndServe()
}

// Shutdown closes every connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) addConnection(c *Connection) {
	s.mu.Lock()
	s.connections[c] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) removeConnection(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()
	_ = c.Close() // Ignore close errors during unregistration
	s.logger.Info("Client disconnected", "player", c.Player(), "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.addConnection(client)
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.removeConnection(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// handleScores serves the score table of one channel as JSON.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		writeJSON(w, http.StatusBadRequest, ErrorData{Code: "invalid_request", Message: "channel is required"})
		return
	}

	sess, ok := s.registry.Lookup(channel)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorData{Code: "not_found", Message: "no game in channel " + channel})
		return
	}
	writeJSON(w, http.StatusOK, ScoresData{Channel: channel, Scores: ScoresFromGame(sess.Scores())})
}

// handleChannels lists the channels with a session.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"channels": s.registry.Channels()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // Ignore write errors, the client is gone
}

// OnEvent implements game.EventSubscriber by broadcasting session events to
// every connection bound to the event's channel.
func (s *Server) OnEvent(event game.Event) {
	var (
		msgType MessageType
		data    any
	)

	switch e := event.(type) {
	case game.SessionResetEvent:
		msgType, data = MessageTypeSessionReset, SessionFromGame(e.Summary)
	case game.RoundStartedEvent:
		msgType, data = MessageTypeRoundStarted, RoundStartedFromGame(e.Channel(), e.RoundStart)
	case game.RoundCompleteEvent:
		msgType, data = MessageTypeRoundComplete, RoundCompleteFromGame(e.Reveal)
	case game.RoundResolvedEvent:
		msgType, data = MessageTypeRoundResolved, RoundResolvedFromGame(e.Resolution)
	default:
		s.logger.Warn("Unhandled session event", "type", event.EventType())
		return
	}

	msg, err := NewMessage(msgType, data, event.Timestamp())
	if err != nil {
		s.logger.Error("Failed to create event message", "type", msgType, "error", err)
		return
	}
	s.BroadcastToChannel(event.Channel(), msg)
}

// BroadcastToChannel sends a message to all connections bound to a channel
func (s *Server) BroadcastToChannel(channel string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.Channel() != channel {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Error("Failed to send message to client", "error", err, "player", conn.Player())
			}
			continue
		}
		count++
	}

	s.logger.Debug("Broadcasted message to channel", "channel", channel, "type", msg.Type, "recipients", count)
}
