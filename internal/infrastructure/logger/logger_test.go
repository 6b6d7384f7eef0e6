// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	// Setup a buffer to capture output
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	// Test debug level logging
	logger.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	// Parse and verify the output
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)

	require.NoError(t, err)
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")
	require.Contains(t, logEntry, "source")

	source, ok := logEntry["source"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, source["file"], "logger_test.go")

	// Test that log levels are respected
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	// This should not log anything (debug < warn)
	warnLogger.Debug("Should not appear", nil)
	assert.Equal(t, "", buf.String())

	// This should log
	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// Test WithField
	buf.Reset()
	fieldLogger := logger.WithField("context", "test")
	fieldLogger.Info("With field", nil)

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	require.NoError(t, err)
	assert.Equal(t, "test", logEntry["context"])
	assert.Equal(t, "With field", logEntry["message"])

	// Test WithFields
	buf.Reset()
	fieldsLogger := logger.WithFields(map[string]interface{}{
		"app":     "nkap",
		"version": "1.0.0",
	})
	fieldsLogger.Info("With fields", nil)

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	require.NoError(t, err)
	assert.Equal(t, "nkap", logEntry["app"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "With fields", logEntry["message"])

	// Empty field sets return the same logger
	assert.Same(t, logger, logger.WithFields(nil))

	// Test log levels
	buf.Reset()
	infoLogger := NewJSONLogger(&buf, InfoLevel)

	infoLogger.Debug("Debug", nil) // Shouldn't log
	assert.Equal(t, "", buf.String())

	infoLogger.Info("Info", nil) // Should log
	assert.Contains(t, buf.String(), "Info")

	buf.Reset()
	infoLogger.Warn("Warn", nil) // Should log
	assert.Contains(t, buf.String(), "Warn")

	buf.Reset()
	infoLogger.Error("Error", nil) // Should log
	assert.Contains(t, buf.String(), "Error")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, InfoLevel, ParseLevel("INFO"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("Error"))
	assert.Equal(t, FatalLevel, ParseLevel("fatal"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestGetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	assert.NotNil(t, logger)
}

func TestSetDefaultLogger(t *testing.T) {
	originalLogger := GetDefaultLogger()
	defer SetDefaultLogger(originalLogger)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	Info("through the package helper", map[string]interface{}{"k": 1})

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "through the package helper", logEntry["message"])

	// The source is the helper's caller, not the logger package
	source, ok := logEntry["source"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, source["file"], "logger_test.go")
	assert.Contains(t, source["function"], "TestSetDefaultLogger")

	buf.Reset()
	Warn("warn through the package helper", nil)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "WARN", logEntry["level"])
	source, ok = logEntry["source"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, source["file"], "logger_test.go")

	// nil is ignored
	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
