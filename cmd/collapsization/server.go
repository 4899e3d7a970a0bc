package main

import (
	"github.com/coder/quartz"

	"github.com/cognivore/collapsization-sub001/cmd/collapsization/shared"
	"github.com/cognivore/collapsization-sub001/internal/server"
)

// ServerCmd runs the authoritative game server.
type ServerCmd struct {
	Config string `kong:"default='collapsization.hcl',help='Path to the HCL configuration file'"`
	Addr   string `kong:"help='Listen address (overrides config)'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for game sessions (overrides config)'"`
	JSON   bool   `kong:"help='Log structured JSON instead of console output'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	config, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		config.Server.Addr = c.Addr
	}
	if c.Seed != nil {
		config.Game.Seed = *c.Seed
	}
	level := config.Server.LogLevel
	if c.Debug {
		level = "debug"
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(level, c.JSON)

	service := server.NewService(config, quartz.NewReal(), logger)
	s := server.NewServer(config.Server.Addr, service, logger)
	service.Bind(s)

	logger.Info().
		Str("addr", config.Server.Addr).
		Int("required_players", config.Game.RequiredPlayers).
		Bool("control_enabled", config.Game.ControlEnabled).
		Bool("allow_verify", config.Game.AllowVerify).
		Bool("death_reveal", config.Game.DeathReveal).
		Int64("seed", config.Game.Seed).
		Msg("starting collapsization server")

	ctx := shared.ShutdownContext(logger)
	return s.Run(ctx)
}
