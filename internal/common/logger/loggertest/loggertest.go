// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
)

// New writes through testing.TB so output shows up only for failing tests.
// Do not use it from goroutines that can outlive the test.
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
