package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		logDebug   bool
		wantOutput bool
	}{
		{
			name:       "info level suppresses debug messages",
			cfg:        Config{Level: InfoLevel, Format: TextFormat},
			logDebug:   true,
			wantOutput: false,
		},
		{
			name:       "debug level emits debug messages",
			cfg:        Config{Level: DebugLevel, Format: TextFormat},
			logDebug:   true,
			wantOutput: true,
		},
		{
			name:       "unknown level falls back to info",
			cfg:        Config{Level: "verbose", Format: TextFormat},
			logDebug:   false,
			wantOutput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Setup(tt.cfg, &buf)

			if tt.logDebug {
				logger.Debug("test message")
			} else {
				logger.Info("test message")
			}

			if tt.wantOutput {
				assert.Contains(t, buf.String(), "test message")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: InfoLevel, Format: JSONFormat}, &buf)

	logger.Info("structured", "key", "value")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}
