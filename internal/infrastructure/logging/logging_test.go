package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

func TestLogrusLogger_MapsLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	l := NewLogrusLogger(logger).With("plan", "wolves")
	l.Log("DEBUG", "hidden", nil)
	l.Log("WARNING", "short on datacores", map[string]interface{}{"balance": -8})
	l.Log("whatever", "falls back to info", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "warning", first["level"])
	assert.Equal(t, "wolves", first["plan"])
	assert.Equal(t, float64(-8), first["balance"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "info", second["level"])
}

func TestConfigure(t *testing.T) {
	logger := logrus.New()
	path := filepath.Join(t.TempDir(), "planner.log")

	closer, err := configure(logger, config.LoggingConfig{Level: "debug", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	_, err = configure(logger, config.LoggingConfig{Level: "loud", Format: "text", Output: "stderr"})
	assert.Error(t, err)
}
