package redikv

import (
	"strings"
	"unicode/utf8"

	"redikv/internal/redikv/errors"
	"redikv/internal/redikv/types"
	"redikv/pkg/utils"

	"github.com/samber/lo"
)

const lineSeparator = "\r\n"

// Decodes one request frame into a typed command
//
// The frame is a multi-bulk array: a count line, then alternating length and
// data lines. The count line and the first length line are skipped, then every
// second line is kept. Declared lengths are trusted and never checked.
func Parse(frame []byte) (types.Command, error) {
	tokens, err := tokenize(frame)
	if err != nil {
		return nil, err
	}

	name := types.CommandName(strings.ToLower(tokens[0]))
	arguments := tokens[1:]

	switch name {
	case types.PING:
		return types.Ping{}, nil
	case types.ECHO:
		if len(arguments) != 1 {
			return nil, errors.NewWrongArityError(string(name))
		}
		return types.Echo{Message: arguments[0]}, nil
	case types.GET:
		if len(arguments) != 1 {
			return nil, errors.NewWrongArityError(string(name))
		}
		return types.Get{Key: arguments[0]}, nil
	case types.SET:
		return parseSet(arguments)
	default:
		return nil, errors.NewUnknownCommandError(string(name))
	}
}

// Splits the frame and keeps the data lines
func tokenize(frame []byte) ([]string, error) {
	if !utf8.Valid(frame) {
		return nil, errors.NewProtocolError("invalid UTF-8 in request")
	}

	lines := strings.Split(string(frame), lineSeparator)
	if len(lines) < 2 {
		return nil, errors.NewProtocolError("incomplete request frame")
	}

	dataLines := lo.Filter(lines[2:], func(_ string, index int) bool {
		return index%2 == 0
	})
	tokens := lo.Compact(lo.Map(dataLines, func(line string, _ int) string {
		return utils.TrimRightSpace(line)
	}))

	if len(tokens) == 0 {
		return nil, errors.NewProtocolError("empty request")
	}
	return tokens, nil
}

// SET key value [px milliseconds]
// Anything after the milliseconds token is ignored.
func parseSet(arguments []string) (types.Command, error) {
	if len(arguments) < 2 {
		return nil, errors.NewWrongArityError(string(types.SET))
	}

	command := types.Set{Key: arguments[0], Value: arguments[1]}
	if len(arguments) == 2 {
		return command, nil
	}

	if arguments[2] != types.PxModifier || len(arguments) < 4 {
		return nil, errors.NewSyntaxError()
	}

	ttl, err := utils.FromStringToUint64(arguments[3])
	if err != nil {
		return nil, errors.NewSyntaxError()
	}
	command.Ttl = &ttl

	return command, nil
}
