package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transport("failed to send note", cause)

	assert.Contains(t, err.Error(), "TRANSPORT_ERROR")
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := ProtocolViolation("first packet was not ClientInfo")
	assert.True(t, Is(err, CodeProtocolViolation))
	assert.False(t, Is(err, CodeDecode))
	assert.False(t, Is(errors.New("plain error"), CodeDecode))
}
