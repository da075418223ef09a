package beacon

import (
	"strings"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// action is the first argument of /beacon. Its options drive the client's
// tab-completion.
type action string

func (action) Type() string {
	return "BeaconAction"
}

func (action) Options(cmd.Source) []string {
	return Complete([]string{""})
}

// beaconCommand binds CommandHandler to Dragonfly's command system.
type beaconCommand struct {
	handler *CommandHandler
	host    *ServerHost

	Action action
	Args   cmd.Optional[cmd.Varargs] `cmd:"value"`
}

// Allow hides /beacon from players without the permission.
func (c beaconCommand) Allow(src cmd.Source) bool {
	p, ok := src.(*player.Player)
	if !ok {
		return true
	}
	return c.host.perms.Allowed(p.Name(), p.UUID())
}

func (c beaconCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	args := []string{string(c.Action)}
	if rest, ok := c.Args.Load(); ok {
		args = append(args, strings.Fields(string(rest))...)
	}

	if !c.handler.Execute(commandSender(c.host, src, o), args) {
		o.Errorf("Usage: %s", Usage)
	}
}

// newCommand creates the /beacon command.
func newCommand(handler *CommandHandler, host *ServerHost) cmd.Command {
	return cmd.New(CommandName, "Configure beacon effects or measure the closest beacon.", nil,
		beaconCommand{handler: handler, host: host})
}
