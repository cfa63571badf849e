package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/fillblanks/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rules  *RulesConfig   `hcl:"rules,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Deck     string `hcl:"deck,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// RulesConfig overrides the session rules. Zero values keep the defaults.
type RulesConfig struct {
	HandSize         int    `hcl:"hand_size,optional"`
	SimulatedPlayers int    `hcl:"simulated_players,optional"`
	MaxPicks         int    `hcl:"max_picks,optional"`
	MinPlayers       int    `hcl:"min_players,optional"`
	DefaultPrompt    string `hcl:"default_prompt,optional"`
	BlankMarker      string `hcl:"blank_marker,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
	}
}

// LoadServerConfig loads server configuration from HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	if c.Rules == nil {
		return nil
	}
	if c.Rules.HandSize < 0 {
		return fmt.Errorf("rules: hand size must not be negative")
	}
	if c.Rules.MaxPicks < 0 {
		return fmt.Errorf("rules: max picks must not be negative")
	}
	// unset values fall back to the game defaults, so compare those
	defaults := game.DefaultRules()
	handSize, maxPicks := c.Rules.HandSize, c.Rules.MaxPicks
	if handSize == 0 {
		handSize = defaults.HandSize
	}
	if maxPicks == 0 {
		maxPicks = defaults.MaxPicks
	}
	if maxPicks > handSize {
		return fmt.Errorf("rules: max picks %d exceeds hand size %d", maxPicks, handSize)
	}
	if c.Rules.SimulatedPlayers < 0 || c.Rules.SimulatedPlayers > 26 {
		return fmt.Errorf("rules: simulated players must be between 0 and 26")
	}
	if c.Rules.MinPlayers < 0 {
		return fmt.Errorf("rules: min players must not be negative")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameRules converts the rules block into session rules.
func (c *ServerConfig) GameRules() game.Rules {
	if c.Rules == nil {
		return game.DefaultRules()
	}
	return game.Rules{
		HandSize:         c.Rules.HandSize,
		SimulatedPlayers: c.Rules.SimulatedPlayers,
		MaxPicks:         c.Rules.MaxPicks,
		MinPlayers:       c.Rules.MinPlayers,
		DefaultPrompt:    c.Rules.DefaultPrompt,
		BlankMarker:      c.Rules.BlankMarker,
	}
}
