package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/warp/worklog-engine/logger"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := logger.New("warn", format)
		require.NoError(t, err, format)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	}
}

func TestNew_Rejects(t *testing.T) {
	_, err := logger.New("loud", "json")
	assert.Error(t, err)

	_, err = logger.New("info", "xml")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
	log.Info("discarded")
}
