package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelInfo), false)

		l.Debug("hidden")
		l.Info("Auth service: user registered", "user_id", "u1")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, `msg="Auth service: user registered"`)
		assert.Contains(t, out, "user_id=u1")
		assert.Contains(t, out, "service=journal-auth")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, int(slog.LevelDebug), true)

		l.Warn("rate limited", "retry_after", 30)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "rate limited", rec["msg"])
		assert.EqualValues(t, 30, rec["retry_after"])
		assert.Equal(t, "journal-auth", rec["service"])
	})
}
