package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			l := New(tc.level, &bytes.Buffer{})
			assert.Equal(t, tc.expected, l.GetLevel())
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", &buf)

	l.WithField("username", "octocat").Info("lookup done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lookup done", entry["msg"])
	assert.Equal(t, "octocat", entry["username"])
	assert.Equal(t, "info", entry["level"])
}
