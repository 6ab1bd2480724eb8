// Package logger provides the process-wide zap logger and request-scoped
// loggers carried in a context.
//
// Call Init once from main:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// Handlers and services should prefer the scoped logger:
//
//	log := logger.From(ctx)
//	log.Info("connection saved", logger.Provider("google"))
package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	initOnce sync.Once
	instance atomic.Pointer[zap.Logger]
)

// Init builds the process logger. Only the first call has an effect, and it
// replaces the fallback logger L may have created before.
func Init(cfg Config) {
	initOnce.Do(func() {
		instance.Store(build(cfg))
	})
}

// L returns the process logger. Before Init it is a dev logger at info level.
func L() *zap.Logger {
	if l := instance.Load(); l != nil {
		return l
	}
	instance.CompareAndSwap(nil, build(Config{Env: "dev", Level: "info"}))
	return instance.Load()
}

// Sync flushes buffered entries.
func Sync() error {
	if l := instance.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
