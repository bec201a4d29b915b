package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtriage/triage-api/internal/config"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name         string
		logLevel     string
		debugEnabled bool
		warnEnabled  bool
	}{
		{name: "debug level", logLevel: "debug", debugEnabled: true, warnEnabled: true},
		{name: "info level", logLevel: "info", debugEnabled: false, warnEnabled: true},
		{name: "error level", logLevel: "error", debugEnabled: false, warnEnabled: false},
		{name: "case insensitive", logLevel: "WARN", debugEnabled: false, warnEnabled: true},
		{name: "invalid level falls back to info", logLevel: "loud", debugEnabled: false, warnEnabled: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8000, LogLevel: tc.logLevel})
			require.NotNil(t, logger)

			assert.Equal(t, tc.debugEnabled, logger.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tc.warnEnabled, logger.Enabled(context.Background(), slog.LevelWarn))

			// Setup installs the logger as the process default
			assert.Equal(t, logger, slog.Default())
		})
	}
}
