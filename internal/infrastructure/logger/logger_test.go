// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, DebugLevel)

	log.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")

	// Log levels are respected
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	warnLogger.Debug("Should not appear", nil)
	warnLogger.Info("Should not appear either", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// WithField
	buf.Reset()
	fieldLogger := log.WithField("context", "test")
	fieldLogger.Info("With field", nil)

	err = json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.Equal(t, "test", logEntry["context"])
	assert.Equal(t, "With field", logEntry["message"])

	// WithFields
	buf.Reset()
	fieldsLogger := log.WithFields(map[string]interface{}{
		"app":     "fxledger",
		"version": "1.0.0",
	})
	fieldsLogger.Info("With fields", nil)

	err = json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.Equal(t, "fxledger", logEntry["app"])
	assert.Equal(t, "1.0.0", logEntry["version"])
}
