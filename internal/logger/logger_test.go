package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"verbose", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestWithFields_CarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", &buf)

	log.WithFields(Fields{"endpoint": "tarot"}).Warn("endpoint failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tarot", line["endpoint"])
	assert.Equal(t, "endpoint failed", line["msg"])
	assert.Equal(t, "warning", line["level"])
}

func TestNewWithOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("error", &buf)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
