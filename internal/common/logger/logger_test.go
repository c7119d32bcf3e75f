package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_WithErrorAttachesErrorField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithError(errors.New("boom")).Warn("Hotpick generation failed", map[string]interface{}{"user_id": int64(7)})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Hotpick generation failed", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, int64(7), fields["user_id"])
}

func TestZapAdapter_WithFieldsAndErrorValues(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "scheduler"})

	log.Debug("dropped below level", nil)
	log.Error("Scheduled task failed", map[string]interface{}{"cause": errors.New("db down")})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "scheduler", fields["component"])
	assert.Equal(t, "db down", fields["cause"])
}

func TestNoOpLogger_Chains(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.WithError(errors.New("x")).WithFields(map[string]interface{}{"a": 1}).Info("ignored", nil)
	})
}
