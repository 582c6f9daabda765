package tqerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Interpreter_displayMessageAndError(t *testing.T) {
	err := Interpreter("unknown command: foo", "tsictl: parse: unrecognized verb")
	assert.Equal(t, "tsictl: parse: unrecognized verb", err.Error())
	assert.Equal(t, "unknown command: foo", DisplayMessage(err))
}

func Test_WrapInterpreter_unwraps(t *testing.T) {
	cause := errors.New("boom")
	err := WrapInterpreter(cause, "load failed", "")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load failed", DisplayMessage(err))
}

func Test_DisplayMessage_fallsBackToErrorForPlainErrors(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, "plain", DisplayMessage(err))
}
