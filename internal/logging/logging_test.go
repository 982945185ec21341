package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/mohammed-tarek-rezk/Taskify/internal/config"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WithoutSentry(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", Environment: "production"}
	require.NoError(t, Setup(cfg))

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
	assert.False(t, sentryEnabled)
}

func TestLogError_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	LogError("database", errors.New("boom"), map[string]interface{}{"task_id": 7})

	out := buf.String()
	assert.Contains(t, out, `"error_type":"database"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"task_id":7`)
}

func TestLogEvent_AttachesData(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	LogEvent("project_deleted", map[string]interface{}{"project_id": uint64(3), "tasks_detached": int64(2)})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "project_deleted", entry.Data["event_type"])
	assert.Equal(t, int64(2), entry.Data["tasks_detached"])
}
