package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNewWithLevelsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWith("production", "WARN", &buf)
	assert.Equal(t, logrus.WarnLevel, l.Logger.GetLevel())
	_, ok := l.Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	local := NewWith("local", "", &buf)
	_, ok = local.Logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, local.Logger.GetLevel())
}

func TestWithRequest(t *testing.T) {
	var buf bytes.Buffer
	l := NewWith("production", "info", &buf)

	r := httptest.NewRequest("GET", "/api/status", nil)
	r.Header.Set("X-Request-ID", "abc")
	l.WithRequest(r).Info("hello")

	m := decode(t, &buf)
	assert.Equal(t, "abc", m["req_id"])
	assert.Equal(t, "/api/status", m["path"])
	assert.Equal(t, "GET", m["method"])

	buf.Reset()
	l.WithRequest(httptest.NewRequest("GET", "/", nil)).Info("generated")
	m = decode(t, &buf)
	assert.Len(t, m["req_id"], 36)
}

func TestComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWith("production", "info", &buf)
	l.Component("store").Info("x")
	assert.Equal(t, "store", decode(t, &buf)["component"])

	buf.Reset()
	l.WithError(errors.New("boom")).Error("failed")
	assert.Equal(t, "boom", decode(t, &buf)["error"])

	assert.Equal(t, l.Entry, l.WithError(nil))
}
