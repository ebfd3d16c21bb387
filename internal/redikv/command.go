package redikv

import (
	"redikv/internal/redikv/errors"
	"redikv/internal/redikv/types"
)

// Executor runs decoded commands against a store and builds the reply frame.
type Executor struct {
	store   KeyValueStore
	metrics *Metrics
}

// metrics may be nil
func NewExecutor(store KeyValueStore, metrics *Metrics) *Executor {
	return &Executor{store: store, metrics: metrics}
}

// PING and ECHO never touch the store; GET and SET always succeed
func (executor *Executor) Execute(command types.Command) []byte {
	executor.metrics.ObserveCommand(string(command.Name()))

	switch input := command.(type) {
	case types.Ping:
		return SimpleReply(PongReply)
	case types.Echo:
		return BulkReply(input.Message)
	case types.Get:
		value, found := executor.store.Get(input.Key)
		executor.metrics.ObserveLookup(found)
		if !found {
			return NullReply()
		}
		return BulkReply(value)
	case types.Set:
		executor.store.Set(input.Key, input.Value, input.Ttl)
		return SimpleReply(OkReply)
	default:
		return ErrorReply(errors.NewUnknownCommandError(string(command.Name())))
	}
}
