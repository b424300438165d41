package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Logs is the read side of an observer logger, used by tests to assert on log output.
type Logs interface {
	Len() int
	All() []observer.LoggedEntry
	FilterMessage(msg string) *observer.ObservedLogs
}

var _ Logs = (*observer.ObservedLogs)(nil)

// NewObserverLogger creates a logger that records entries at or above level in memory.
func NewObserverLogger(level string) (Logger, Logs) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	core, logs := observer.New(lvl)
	return &ZapLogger{Logger: zap.New(core)}, logs
}
