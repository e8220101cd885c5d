// Package logger configures the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects the encoder and level
type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

// Init builds the logger and installs it as the zap global. Production uses
// JSON output; every other environment gets the colored console encoder.
func Init(cfg LogConfig) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.Environment == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.OutputPaths = []string{"stdout"}
	logConfig.Level.SetLevel(ParseLevel(cfg.Level))

	log, err := logConfig.Build()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName != "" {
		log = log.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		log = log.With(zap.String("environment", cfg.Environment))
	}

	zap.ReplaceGlobals(log)
	return log, nil
}

// ParseLevel parses a level name, falling back to info
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
