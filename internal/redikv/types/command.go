package types

import "strconv"

type CommandName string

const (
	PING CommandName = "ping"
	ECHO CommandName = "echo"
	GET  CommandName = "get"
	SET  CommandName = "set"
)

// PxModifier is the only SET modifier understood, matched case-sensitively
const PxModifier = "px"

// Command is a decoded request. The set of implementations is closed:
// Ping, Echo, Get and Set.
type Command interface {
	Name() CommandName
	// Args returns the positional arguments as they appear on the wire
	Args() []string
	isCommand()
}

type Ping struct{}

type Echo struct {
	Message string
}

type Get struct {
	Key string
}

type Set struct {
	Key   string
	Value string
	Ttl   *uint64 // milliseconds, nil means no expiration
}

func (Ping) Name() CommandName { return PING }
func (Echo) Name() CommandName { return ECHO }
func (Get) Name() CommandName  { return GET }
func (Set) Name() CommandName  { return SET }

func (Ping) Args() []string { return nil }

func (command Echo) Args() []string { return []string{command.Message} }

func (command Get) Args() []string { return []string{command.Key} }

func (command Set) Args() []string {
	args := []string{command.Key, command.Value}
	if command.Ttl != nil {
		args = append(args, PxModifier, strconv.FormatUint(*command.Ttl, 10))
	}
	return args
}

func (Ping) isCommand() {}
func (Echo) isCommand() {}
func (Get) isCommand()  {}
func (Set) isCommand()  {}
