package logger

import (
	"mapmyroute_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogLevel(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, zapcore.InfoLevel, logLevel(cfg))

	cfg.Server.Mode = "debug"
	assert.Equal(t, zapcore.DebugLevel, logLevel(cfg))

	cfg.Log.Level = "warn"
	assert.Equal(t, zapcore.WarnLevel, logLevel(cfg))

	cfg.Log.Level = "loud"
	assert.Equal(t, zapcore.DebugLevel, logLevel(cfg))
}

func TestLogFile(t *testing.T) {
	assert.Equal(t, "logs/mapmyroute.log", logFile(&config.Config{}))
	assert.Equal(t, "/tmp/x.log", logFile(&config.Config{Log: config.LogConfig{File: "/tmp/x.log"}}))
}
