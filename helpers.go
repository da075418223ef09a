package beacon

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// commandSender turns a command source into a Sender that replies through
// the command output. Players become a Located sender; any other source is
// treated as the console and holds every permission.
func commandSender(h *ServerHost, src cmd.Source, out *cmd.Output) Sender {
	p, ok := src.(*player.Player)
	if !ok {
		return consoleSender{out: out}
	}
	return playerSender{playerTarget: &playerTarget{p: p, host: h}, out: out}
}

// consoleSender is a non-player command source.
type consoleSender struct {
	out *cmd.Output
}

func (consoleSender) HasPermission(string) bool {
	return true
}

func (s consoleSender) Message(msg string) {
	s.out.Print(msg)
}

// playerSender is a player running a command.
type playerSender struct {
	*playerTarget
	out *cmd.Output
}

func (s playerSender) Message(msg string) {
	s.out.Print(msg)
}

var _ Located = playerSender{}
