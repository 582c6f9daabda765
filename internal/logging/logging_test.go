package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Logger_discardsBelowThreshold(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	lg := New(&buf, LevelWarn)

	lg.Debug("swallowed %d", 1)
	lg.Info("swallowed %d", 2)
	assert.Empty(buf.String())

	lg.Warn("kept %d", 3)
	assert.True(strings.Contains(buf.String(), "WARN: kept 3"))

	lg.Error("kept %d", 4)
	assert.True(strings.Contains(buf.String(), "ERROR: kept 4"))
}

func Test_ParseLevel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(LevelDebug, ParseLevel("debug"))
	assert.Equal(LevelWarn, ParseLevel("warning"))
	assert.Equal(LevelError, ParseLevel("error"))
	assert.Equal(LevelInfo, ParseLevel("whatever"))
}

func Test_SetDefault_changesPackageLevelFuncs(t *testing.T) {
	assert := assert.New(t)

	var buf, restore bytes.Buffer
	SetDefault(New(&buf, LevelDebug))
	defer SetDefault(New(&restore, LevelInfo))

	Debug("hello %s", "world")
	assert.True(strings.Contains(buf.String(), "DEBUG: hello world"))
}
