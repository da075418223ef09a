package beacon

import (
	"log/slog"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
)

// Plugin is an enabled beacon plugin. It owns the config, the tile registry
// and the scheduler running the effect loop.
type Plugin struct {
	config     *Config
	registry   *Registry
	host       *ServerHost
	applicator *Applicator
	commands   *CommandHandler
	scheduler  *Scheduler
	log        *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Config returns the plugin's settings.
func (p *Plugin) Config() *Config {
	return p.config
}

// Registry returns the tile registry.
func (p *Plugin) Registry() *Registry {
	return p.registry
}

// Commands returns the handler behind /beacon.
func (p *Plugin) Commands() *CommandHandler {
	return p.commands
}

// NewHandler creates a player.Handler that keeps the tile registry up to
// date. Pass it to player.Handle() when a player joins.
func (p *Plugin) NewHandler() player.Handler {
	return &PlayerHandler{registry: p.registry, log: p.log}
}

// Close stops the effect loop and closes the registry. It is safe to call
// more than once.
func (p *Plugin) Close() error {
	p.closeOnce.Do(func() {
		p.scheduler.Stop()
		p.closeErr = p.registry.Close()
		p.log.Info("beacon: plugin disabled")
	})
	return p.closeErr
}
