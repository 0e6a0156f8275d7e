package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	log := New("debug")
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, log, zap.L())

	log = New("not-a-level")
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
