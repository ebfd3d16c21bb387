package errors

import (
	"errors"
	"fmt"
)

var ErrorWrongArity = errors.New("parse.wrongArity")
var ErrorUnknownCommand = errors.New("parse.unknownCommand")
var ErrorSyntax = errors.New("parse.syntax")
var ErrorProtocol = errors.New("parse.protocol")

// ParseError describes why a frame could not be decoded into a command.
// It carries no recovery state; Kind is one of the sentinels above.
type ParseError struct {
	Kind    error
	Command string // offending command name, for arity and unknown-command errors
	Reason  string // detail for protocol errors
}

func NewWrongArityError(command string) *ParseError {
	return &ParseError{Kind: ErrorWrongArity, Command: command}
}

func NewUnknownCommandError(command string) *ParseError {
	return &ParseError{Kind: ErrorUnknownCommand, Command: command}
}

func NewSyntaxError() *ParseError {
	return &ParseError{Kind: ErrorSyntax}
}

func NewProtocolError(reason string) *ParseError {
	return &ParseError{Kind: ErrorProtocol, Reason: reason}
}

// Error renders the message sent back to the client
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrorWrongArity:
		return fmt.Sprintf("ERR wrong number of arguments for '%s' command", e.Command)
	case ErrorUnknownCommand:
		return fmt.Sprintf("ERR unknown command '%s'", e.Command)
	case ErrorSyntax:
		return "ERR syntax error"
	case ErrorProtocol:
		return fmt.Sprintf("ERR protocol error: %s", e.Reason)
	default:
		return "ERR " + e.Kind.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Fatal reports whether the connection has to be torn down no matter how
// the server is configured to react to recoverable errors.
func (e *ParseError) Fatal() bool {
	return e.Kind == ErrorProtocol
}
