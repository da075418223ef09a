package beacon

import (
	"fmt"
	"log/slog"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
)

// Builder configures the plugin before it is enabled.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	configPath   string
	registryPath string
	operators    []string
	log          *slog.Logger

	delay    int
	interval int
}

// NewBuilder creates a builder with the default paths and schedule.
func NewBuilder() *Builder {
	return &Builder{
		configPath: "plugins/beacon/config.yml",
		delay:      DelayTicks,
		interval:   IntervalTicks,
	}
}

// ConfigPath sets the location of the YAML config file.
func (b *Builder) ConfigPath(path string) *Builder {
	b.configPath = path
	return b
}

// RegistryPath sets the location of the tile registry database. An empty
// path keeps the registry in memory only.
func (b *Builder) RegistryPath(path string) *Builder {
	b.registryPath = path
	return b
}

// Operators adds players, by name or UUID, that may run /beacon.
func (b *Builder) Operators(ops ...string) *Builder {
	b.operators = append(b.operators, ops...)
	return b
}

// Logger sets the logger. Defaults to slog.Default().
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// Schedule overrides the initial delay and interval of the effect loop, in
// ticks.
func (b *Builder) Schedule(delay, interval int) *Builder {
	b.delay = delay
	b.interval = interval
	return b
}

// Init enables the plugin for the given worlds and panics if that fails.
func (b *Builder) Init(ws ...*world.World) *Plugin {
	p, err := b.Build(ws...)
	if err != nil {
		panic("beacon: failed to enable plugin: " + err.Error())
	}
	return p
}

// Build enables the plugin for the given worlds: it loads the config,
// registers /beacon and starts the effect loop.
func (b *Builder) Build(ws ...*world.World) (*Plugin, error) {
	log := b.log
	if log == nil {
		log = slog.Default()
	}

	config, err := LoadConfig(b.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log.Info("beacon: config loaded",
		"path", config.Path(),
		"distance", config.Distance(),
		"tier", config.Tier())

	registry, err := OpenRegistry(b.registryPath)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	host := NewServerHost(registry, NewPermissions(b.operators...), log, ws...)
	p := &Plugin{
		config:     config,
		registry:   registry,
		host:       host,
		applicator: NewApplicator(host, config, log),
		commands:   NewCommandHandler(config, log),
		scheduler:  NewScheduler(log),
		log:        log,
	}

	cmd.Register(newCommand(p.commands, host))

	p.scheduler.AddLoop("effects", p.applicator, b.delay, b.interval)
	p.scheduler.Start()

	log.Info("beacon: plugin enabled", "version", Version, "worlds", len(host.worlds))
	return p, nil
}
