package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/logger"
)

type ctxKey struct{}

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
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("kdf")))
		log.Info("hello")
		assert.Equal(t, "kdf", decode(t, buf)["component"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.WithFormat("xml") })
	})
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(nil, logger.ContextString("request_id", func(ctx context.Context) string {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v
		})),
	)

	log.InfoContext(context.WithValue(context.Background(), ctxKey{}, "req-1"), "with id")
	assert.Equal(t, "req-1", decode(t, buf)["request_id"])

	buf.Reset()
	log.With("k", "v").InfoContext(context.Background(), "without id")
	entry := decode(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.Equal(t, "v", entry["k"])
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.FromConfig(logger.Config{Level: "debug", Format: "TEXT"}, logger.WithOutput(buf))
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = logger.FromConfig(logger.Config{Level: "loud", Format: "json"})
	assert.ErrorIs(t, err, logger.ErrInvalidConfig)

	_, err = logger.FromConfig(logger.Config{Level: "info", Format: "xml"})
	assert.ErrorIs(t, err, logger.ErrInvalidConfig)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "N=16 r=1 p=1 dklen=64", logger.Params(kdf.Params{N: 16, R: 1, P: 1, KeyLen: 64}).Value.String())
	assert.Equal(t, "abc", logger.Challenge("abc").Value.String())
	assert.Equal(t, "eyJOIjoxNjM4NCwiciI6OCwi...", logger.Challenge(`eyJOIjoxNjM4NCwiciI6OCwicCI6MX0=`).Value.String())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.Error("nothing happens")
}
