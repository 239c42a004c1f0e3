package ppg

import "encoding/json"

const (
	commandSubscribe     = "subscribe"
	commandUnsubscribe   = "unsubscribe"
	commandTerminalInput = "terminal_input"
)

// Command is an outgoing client command. Implementations are the
// *Command types in this package; the interface is sealed.
type Command interface {
	wire() any
}

// SubscribeCommand subscribes to a server channel, e.g. "manifest" or a
// terminal channel for one agent.
type SubscribeCommand struct {
	Channel string
}

// UnsubscribeCommand unsubscribes from a server channel.
type UnsubscribeCommand struct {
	Channel string
}

// TerminalInputCommand forwards keystrokes to an agent's terminal.
type TerminalInputCommand struct {
	AgentID string
	Data    string
}

type wireChannelCommand struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type wireTerminalInput struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId"`
	Data    string `json:"data"`
}

func (c SubscribeCommand) wire() any {
	return wireChannelCommand{Type: commandSubscribe, Channel: c.Channel}
}

func (c UnsubscribeCommand) wire() any {
	return wireChannelCommand{Type: commandUnsubscribe, Channel: c.Channel}
}

func (c TerminalInputCommand) wire() any {
	return wireTerminalInput{Type: commandTerminalInput, AgentID: c.AgentID, Data: c.Data}
}

// EncodeCommand serializes a command to its wire form. The key set and
// order are fixed per command type, so output is deterministic.
func EncodeCommand(cmd Command) ([]byte, error) {
	return json.Marshal(cmd.wire())
}
