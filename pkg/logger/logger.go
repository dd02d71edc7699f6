package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	ServiceName string
	Development bool
	Format      string // json or console
}

var global = zap.NewNop()

// Init builds the process logger from config. Safe to call once at startup;
// before Init, Get returns a no-op logger.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{Level: "info", Format: "json"}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "console":
		zapCfg.Encoding = "console"
	case "", "json":
		zapCfg.Encoding = "json"
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	log, err := zapCfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		log = log.With(zap.String("service", cfg.ServiceName))
	}

	global = log
	return nil
}

// Get returns the process logger
func Get() *zap.Logger {
	return global
}

// Sync flushes any buffered log entries
func Sync() error {
	return global.Sync()
}
