package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "(not set)"},
		{"short", "********"},
		{"12345678", "********"},
		{"sk-abcdefghijkl", "sk-a...ijkl"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, maskToken(tt.token))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		verbose, logLevel, logFile = false, "", ""
		logCloser = nil
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	t.Run("warn by default", func(t *testing.T) {
		verbose, logLevel, logFile = false, "", ""
		var buf bytes.Buffer
		require.NoError(t, setupLogging(&buf))
		assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

		log.Info().Msg("hidden")
		log.Warn().Msg("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		verbose, logLevel, logFile = true, "", ""
		require.NoError(t, setupLogging(&bytes.Buffer{}))
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("log level overrides verbose", func(t *testing.T) {
		verbose, logLevel, logFile = true, "error", ""
		require.NoError(t, setupLogging(&bytes.Buffer{}))
		assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	})

	t.Run("invalid level", func(t *testing.T) {
		verbose, logLevel, logFile = false, "loud", ""
		assert.Error(t, setupLogging(&bytes.Buffer{}))
	})

	t.Run("log file", func(t *testing.T) {
		verbose, logLevel = false, ""
		logFile = filepath.Join(t.TempDir(), "sitechat.log")
		var buf bytes.Buffer
		require.NoError(t, setupLogging(&buf))
		require.NotNil(t, logCloser)

		log.Warn().Msg("to file")
		require.NoError(t, logCloser.Close())
		assert.Empty(t, buf.String())
	})
}
