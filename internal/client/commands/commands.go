package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/fillblanks/internal/client"
)

// GlobalFlags holds common configuration for all client commands
type GlobalFlags struct {
	Config   string `short:"c" long:"config" default:"fillblanks-client.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" long:"server" help:"Server URL to connect to (overrides config)"`
	Player   string `short:"p" long:"player" help:"Player id (overrides config)"`
	Channel  string `long:"channel" help:"Channel to play in (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	NoColor  bool   `long:"no-color" help:"Disable colored output"`
}

// LoadConfig loads the client configuration and applies flag overrides.
func LoadConfig(flags *GlobalFlags) (*client.ClientConfig, error) {
	cfg, err := client.LoadClientConfig(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if flags.Server != "" {
		cfg.Server.URL = flags.Server
	}
	if flags.Player != "" {
		cfg.Player.ID = flags.Player
	}
	if flags.Channel != "" {
		cfg.Player.Channel = flags.Channel
	}
	if flags.LogLevel != "" {
		cfg.UI.LogLevel = flags.LogLevel
	}
	if flags.NoColor {
		cfg.UI.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SetupClient connects and authenticates a client for cfg.
func SetupClient(ctx context.Context, cfg *client.ClientConfig, logWriter io.Writer) (*client.Client, *log.Logger, error) {
	logger := log.New(logWriter)
	level, err := log.ParseLevel(cfg.UI.LogLevel)
	if err != nil {
		level = log.WarnLevel // Default to warn to reduce noise
	}
	logger.SetLevel(level)

	wsClient := client.NewClient(cfg.Server.URL, logger)
	if err := wsClient.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	authCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()
	if err := wsClient.Auth(authCtx, cfg.Player.ID); err != nil {
		_ = wsClient.Disconnect()
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return wsClient, logger, nil
}
