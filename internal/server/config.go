package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joeshaw/envdecode"

	"github.com/cognivore/collapsization-sub001/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains process-level configuration.
type ServerSettings struct {
	Addr     string `hcl:"addr,optional" env:"COLLAPSIZATION_ADDR"`
	LogLevel string `hcl:"log_level,optional" env:"COLLAPSIZATION_LOG_LEVEL"`
}

// GameSettings contains session rules. The variant toggles default to the
// plain rule set.
type GameSettings struct {
	RequiredPlayers  int   `hcl:"required_players,optional" env:"COLLAPSIZATION_REQUIRED_PLAYERS"`
	HandSize         int   `hcl:"hand_size,optional" env:"COLLAPSIZATION_HAND_SIZE"`
	RevealsPerTurn   int   `hcl:"reveals_per_turn,optional" env:"COLLAPSIZATION_REVEALS_PER_TURN"`
	ControlEnabled   bool  `hcl:"control_enabled,optional" env:"COLLAPSIZATION_CONTROL_ENABLED"`
	AllowVerify      bool  `hcl:"allow_verify,optional" env:"COLLAPSIZATION_ALLOW_VERIFY"`
	DeathReveal      bool  `hcl:"death_reveal,optional" env:"COLLAPSIZATION_DEATH_REVEAL"`
	FacilitiesTarget int   `hcl:"facilities_target,optional" env:"COLLAPSIZATION_FACILITIES_TARGET"`
	Seed             int64 `hcl:"seed,optional" env:"COLLAPSIZATION_SEED"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:     "localhost:8080",
			LogLevel: "info",
		},
		Game: GameSettings{
			RequiredPlayers:  3,
			HandSize:         4,
			RevealsPerTurn:   2,
			FacilitiesTarget: 10,
		},
	}
}

// LoadConfig loads configuration from an HCL file, then applies defaults
// for anything unset and environment overrides on top. A missing file is
// not an error; the defaults stand.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		if diags := gohcl.DecodeBody(file.Body, nil, config); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	}

	config.applyDefaults()

	if err := envdecode.Decode(config); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Game.RequiredPlayers == 0 {
		c.Game.RequiredPlayers = defaults.Game.RequiredPlayers
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = defaults.Game.HandSize
	}
	if c.Game.RevealsPerTurn == 0 {
		c.Game.RevealsPerTurn = defaults.Game.RevealsPerTurn
	}
	if c.Game.FacilitiesTarget == 0 {
		c.Game.FacilitiesTarget = defaults.Game.FacilitiesTarget
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Game.RequiredPlayers != 3 {
		return fmt.Errorf("required_players must be 3, got %d", c.Game.RequiredPlayers)
	}
	if c.Game.HandSize < 1 || c.Game.HandSize > 10 {
		return fmt.Errorf("hand_size must be between 1 and 10, got %d", c.Game.HandSize)
	}
	if c.Game.RevealsPerTurn < 0 || c.Game.RevealsPerTurn > c.Game.HandSize {
		return fmt.Errorf("reveals_per_turn must be between 0 and hand_size, got %d", c.Game.RevealsPerTurn)
	}
	if c.Game.FacilitiesTarget < 0 {
		return fmt.Errorf("facilities_target must not be negative, got %d", c.Game.FacilitiesTarget)
	}
	return nil
}

// Rules converts the game settings into the state machine's rule set.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		HandSize:         c.Game.HandSize,
		RevealsPerTurn:   c.Game.RevealsPerTurn,
		ControlEnabled:   c.Game.ControlEnabled,
		AllowVerify:      c.Game.AllowVerify,
		DeathReveal:      c.Game.DeathReveal,
		FacilitiesTarget: c.Game.FacilitiesTarget,
	}
}
