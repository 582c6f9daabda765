package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseCommand_loadPreservesPathCase(t *testing.T) {
	cmd, err := ParseCommand("load ./Boards/Main.board")
	assert.NoError(t, err)
	assert.Equal(t, "LOAD", cmd.Verb)
	assert.Equal(t, "./Boards/Main.board", cmd.Target)
}

func Test_ParseCommand_dispatchWithPayload(t *testing.T) {
	cmd, err := ParseCommand("dispatch ev1 Hello World")
	assert.NoError(t, err)
	assert.Equal(t, "DISPATCH", cmd.Verb)
	assert.Equal(t, "EV1", cmd.Target)
	assert.Equal(t, "Hello World", cmd.Payload)
}

func Test_ParseCommand_aliasExpansion(t *testing.T) {
	cmd, err := ParseCommand("q")
	assert.NoError(t, err)
	assert.Equal(t, "QUIT", cmd.Verb)
}

func Test_ParseCommand_focusRequiresNextOrPrev(t *testing.T) {
	_, err := ParseCommand("focus sideways")
	assert.Error(t, err)
}

func Test_ParseCommand_unknownVerb(t *testing.T) {
	_, err := ParseCommand("frobnicate")
	assert.Error(t, err)
}

func Test_ParseCommand_emptyInputIsZeroValue(t *testing.T) {
	cmd, err := ParseCommand("   ")
	assert.NoError(t, err)
	assert.Equal(t, Command{}, cmd)
}
