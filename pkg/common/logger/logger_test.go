package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug", "")
	t.Cleanup(func() { Configure(os.Stdout, "info", "") })

	WithField("upload_id", 7).Debug("validated upload")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validated upload", entry["msg"])
	assert.EqualValues(t, 7, entry["upload_id"])
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "chatty", "text")
	t.Cleanup(func() { Configure(os.Stdout, "info", "") })

	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	Log.Debug("hidden")
	assert.Empty(t, buf.String())
}
