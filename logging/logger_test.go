package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"blogapi/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&config.Logger{Level: "warn", Format: "json"}, &buf)

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.WithField("post_id", "abc").Warn("visible")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "abc", entry["post_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&config.Logger{Level: "debug", Format: "TEXT"}, &buf)

	log.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewBadLevel(t *testing.T) {
	log := NewWithOutput(&config.Logger{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
