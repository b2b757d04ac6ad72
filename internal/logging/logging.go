// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"log"
	"time"

	"github.com/blinklabs-io/lwmad/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger = zap.SugaredLogger

// Start out with a no-op logger so that packages used before Setup() (or in
// tests) don't need to care
var globalLogger = zap.NewNop().Sugar()

func Setup() {
	cfg := config.GetConfig()
	// Build our custom logging config
	loggerConfig := zap.NewProductionConfig()
	// Change timestamp key name
	loggerConfig.EncoderConfig.TimeKey = "timestamp"
	// Use a human readable time format
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(
		time.RFC3339,
	)

	// Set level
	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			log.Fatalf("error configuring logger: %s", err)
		}
		loggerConfig.Level.SetLevel(level)
	}

	// Create the logger
	l, err := loggerConfig.Build()
	if err != nil {
		log.Fatal(err)
	}

	// Store the "sugared" version of the logger
	globalLogger = l.Sugar()
}

func GetLogger() *Logger {
	return globalLogger
}

// GetComponentLogger returns a logger that tags every entry with the
// component name
func GetComponentLogger(component string) *Logger {
	return globalLogger.With("component", component)
}

func GetDesugaredLogger() *zap.Logger {
	return globalLogger.Desugar()
}

// GetQueryLogger returns the logger used for DNS query logging
func GetQueryLogger() *zap.Logger {
	return globalLogger.Desugar().
		With(zap.String("type", "query")).
		WithOptions(zap.WithCaller(false))
}
