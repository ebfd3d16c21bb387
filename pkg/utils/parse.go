package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// Converts string value to uint64, a single leading '+' is accepted
func FromStringToUint64(value string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(value, "+"), 10, 64)
}

// Removes trailing unicode whitespace
func TrimRightSpace(value string) string {
	return strings.TrimRightFunc(value, unicode.IsSpace)
}

// Replaces line breaks so the value fits on a single protocol line
func SingleLine(value string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
}
