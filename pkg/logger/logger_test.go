package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf)).Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test"))).Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("context extractor", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(logger.ContextValue("request_id", key{})),
		)
		ctx := context.WithValue(context.Background(), key{}, "req-1")
		log.With(logger.Component("test")).InfoContext(ctx, "msg")
		entry := decode(t, buf)
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "test", entry["component"])
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithEnvironment("dev", "svc"), logger.WithOutput(buf)).Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=svc")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(buf))
		log.Debug("dropped")
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "svc", entry["service"])
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	l, err := logger.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Reason("").Equal(slog.Attr{}))
	assert.True(t, logger.OrganizationID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))

	err := errors.New("boom")
	assert.Equal(t, err, logger.Error(err).Value.Any())
	assert.Equal(t, "reason", logger.Reason("FORBIDDEN").Key)
	assert.Equal(t, "organization_id", logger.OrganizationID("org").Key)

	buf := &bytes.Buffer{}
	logger.New(logger.WithOutput(buf)).Info("msg", logger.Reason(""), logger.Status("trial"))
	entry := decode(t, buf)
	assert.NotContains(t, entry, "reason")
	assert.Equal(t, "trial", entry["status"])
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { logger.Discard().Info("nothing") })
}
