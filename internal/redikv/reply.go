package redikv

import (
	"errors"
	"strings"

	"redikv/internal/redikv/types"
	"redikv/pkg/utils"

	"github.com/samber/lo"
	"github.com/tidwall/resp"
)

const (
	PongReply = "PONG"
	OkReply   = "OK"
)

// +<text>\r\n
func SimpleReply(text string) []byte {
	return marshal(resp.SimpleStringValue(utils.SingleLine(text)))
}

// $<length>\r\n<value>\r\n
func BulkReply(value string) []byte {
	return marshal(resp.StringValue(value))
}

// $-1\r\n, sent for a missing or expired key
func NullReply() []byte {
	return marshal(resp.NullValue())
}

// -<message>\r\n
func ErrorReply(err error) []byte {
	return marshal(resp.ErrorValue(errors.New(utils.SingleLine(err.Error()))))
}

// Renders a command as the multi-bulk request frame Parse expects
func EncodeCommand(command types.Command) ([]byte, error) {
	words := append([]string{strings.ToUpper(string(command.Name()))}, command.Args()...)

	return resp.ArrayValue(lo.Map(words, func(word string, _ int) resp.Value {
		return resp.StringValue(word)
	})).MarshalRESP()
}

// Values built by the constructors above always marshal
func marshal(value resp.Value) []byte {
	encoded, err := value.MarshalRESP()
	if err != nil {
		panic(err)
	}
	return encoded
}
