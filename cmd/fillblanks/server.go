package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/fillblanks/cmd/fillblanks/shared"
	"github.com/lox/fillblanks/internal/deck"
	"github.com/lox/fillblanks/internal/server"
	"golang.org/x/sync/errgroup"
)

// ServerCmd runs the websocket gateway
type ServerCmd struct {
	Config   string `short:"c" default:"fillblanks.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to, host:port (overrides config)"`
	Deck     string `help:"Deck file, JSON or HCL (overrides config, defaults to the built-in deck)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Debug    bool   `help:"Enable debug logging"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Deck != "" {
		cfg.Server.Deck = c.Deck
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel, c.Debug)

	source, err := loadDeck(cfg.Server.Deck)
	if err != nil {
		return err
	}
	if len(source.Answers) == 0 {
		logger.Warn("Deck has no answer cards, hands will stay empty", "deck", cfg.Server.Deck)
	}

	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	s := server.NewServer(logger, source,
		server.WithRules(cfg.GameRules()),
		server.WithSeed(seed),
	)

	rules := cfg.GameRules()
	logger.Info("Starting fill-in-the-blank server",
		"addr", addr,
		"prompts", len(source.Prompts),
		"answers", len(source.Answers),
		"hand_size", rules.HandSize,
		"max_picks", rules.MaxPicks)

	return serve(shared.SetupSignalHandler(logger), logger, s, addr)
}

// serve runs the server until ctx is cancelled or it fails to listen.
func serve(ctx context.Context, logger *log.Logger, s *server.Server, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadDeck(path string) (*deck.Source, error) {
	if path == "" {
		return deck.Default()
	}
	return deck.Load(path)
}
