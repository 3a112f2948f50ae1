// Package logutil owns the process-wide zap logger. Every binary calls
// InitLogger once at startup and GetLogger wherever it needs to log.
package logutil

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// InitLogger builds the process-wide logger: JSON encoding by default,
// human-readable console encoding when verbose is requested. Safe to call
// more than once; the last call wins.
func InitLogger(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// GetLogger returns the process-wide logger, falling back to a default
// production logger if InitLogger was never called (keeps libraries that
// log opportunistically from panicking in tests).
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
