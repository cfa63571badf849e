package main

import (
	"os"
	"path/filepath"

	"github.com/lox/fillblanks/cmd/fillblanks/shared"
	"github.com/lox/fillblanks/internal/client/commands"
	"github.com/lox/fillblanks/internal/render"
)

// ClientCmd connects to a server and plays from the terminal
type ClientCmd struct {
	commands.GlobalFlags
}

func (c *ClientCmd) Run() error {
	cfg, err := commands.LoadConfig(&c.GlobalFlags)
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(shared.SetupLogger(cfg.UI.LogLevel, false))

	wsClient, logger, err := commands.SetupClient(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	renderer := render.New(os.Stdout, cfg.UI.Color)
	rl, err := commands.NewReadline(
		renderer.Styles().Label.Render(cfg.Player.Channel+"> "),
		filepath.Join(os.TempDir(), "fillblanks_history"),
	)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	logger.Info("Connected", "server", cfg.Server.URL, "player", cfg.Player.ID, "channel", cfg.Player.Channel)

	repl := commands.NewREPL(wsClient, cfg.Player.Channel, rl.Stdout(), renderer, cfg.Timeout())
	repl.Attach()
	return repl.Run(ctx, rl)
}
