// Package beacon applies configurable beacon effects on Dragonfly servers.
//
// Every few seconds the plugin walks each world that has players in it, finds
// the beacons in its loaded chunks and grants the beacon's primary and
// secondary effects to every player within the configured distance, provided
// the beacon's pyramid reaches the configured minimum tier.
//
// # Quick Start
//
//	plugin := beacon.NewBuilder().
//	    ConfigPath("plugins/beacon/config.yml").
//	    RegistryPath("plugins/beacon/tiles.db").
//	    Operators("Steve").
//	    Init(srv.World(), srv.Nether(), srv.End())
//	defer plugin.Close()
//
//	for p := range srv.Accept() {
//	    p.Handle(plugin.NewHandler())
//	}
//
// # Command
//
//	/beacon distance <n>   set the effect radius
//	/beacon tier <n>       set the minimum pyramid tier
//	/beacon measure        distance to the closest beacon in your world
//
// # Configuration
//
// The plugin keeps its two settings in a YAML file. When the file does not
// exist, the bundled default is written first:
//
//	distance: 50
//	tier: 1
package beacon

// Version is the plugin version.
const Version = "1.0.0"

// Configuration keys and the measure keyword of the /beacon command.
const (
	DistanceKey = "distance"
	TierKey     = "tier"
	MeasureKey  = "measure"
)

// CommandName is the name of the plugin's command.
const CommandName = "beacon"

// Permission is required to run /beacon.
const Permission = "beacon"

// Scheduling of the effect loop, in server ticks.
const (
	DelayTicks    = 200
	IntervalTicks = 100
)
