package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HelpText_listsAllVerbs(t *testing.T) {
	text := HelpText()
	for _, v := range Verbs {
		assert.Contains(t, text, v)
	}
	assert.Contains(t, text, "and QUIT")
}
