package utils

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Filter returns the values of a slice matching f
func Filter[T any](s []T, f func(T) bool) []T {
	var r []T
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

// DecodeTransferMessage decodes a hex-encoded transfer message payload into a
// plain UTF-8 string, stripping the leading message-type byte and any NUL
// padding the wallet added.
func DecodeTransferMessage(messageHex string) (string, error) {
	raw, err := hex.DecodeString(messageHex)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(raw), "\x00", ""), nil
}

// ParseSelection parses a comma-separated list of layer indices, e.g. "1,1,1,1,1,1".
func ParseSelection(message string, expectedCount int) ([]int, error) {
	parts := strings.Split(message, ",")
	if len(parts) != expectedCount {
		return nil, &SelectionError{Message: message}
	}

	selection := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, &SelectionError{Message: message}
		}
		selection = append(selection, n)
	}
	return selection, nil
}

type SelectionError struct {
	Message string
}

func (err *SelectionError) Error() string {
	return "invalid order selection message: " + err.Message
}
