package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/config"
)

func TestNewProvider(t *testing.T) {
	t.Run("disabled returns noop provider", func(t *testing.T) {
		p, err := NewProvider(config.TracingConfig{Enabled: false})
		require.NoError(t, err)

		assert.False(t, p.Enabled())
		assert.NotNil(t, p.Tracer())
		assert.NoError(t, p.Shutdown(context.Background()))
	})

	t.Run("file exporter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")
		p, err := NewProvider(config.TracingConfig{
			Enabled:    true,
			Exporter:   "file",
			FilePath:   path,
			SampleRate: 1.0,
		})
		require.NoError(t, err)
		defer func() { _ = p.Shutdown(context.Background()) }()

		assert.True(t, p.Enabled())

		_, span := p.Tracer().Start(context.Background(), "test.span")
		span.End()

		require.NoError(t, p.Shutdown(context.Background()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "test.span")
	})

	t.Run("none exporter still traces internally", func(t *testing.T) {
		p, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "none", SampleRate: 1.0})
		require.NoError(t, err)
		defer func() { _ = p.Shutdown(context.Background()) }()

		assert.True(t, p.Enabled())
	})

	t.Run("unknown exporter errors", func(t *testing.T) {
		_, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "kafka"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported exporter")
	})
}

func TestFileExporter(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "traces.jsonl")
		e, err := NewFileExporter(path)
		require.NoError(t, err)
		defer func() { _ = e.Shutdown(context.Background()) }()

		_, err = os.Stat(filepath.Dir(path))
		assert.NoError(t, err)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "traces.jsonl")
		e, err := NewFileExporter(path)
		require.NoError(t, err)

		require.NoError(t, e.ExportSpans(context.Background(), nil))
		require.NoError(t, e.Shutdown(context.Background()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})

	t.Run("shutdown twice is safe", func(t *testing.T) {
		e, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
		require.NoError(t, err)
		require.NoError(t, e.Shutdown(context.Background()))
		require.NoError(t, e.Shutdown(context.Background()))
	})
}

func TestFileExporterOutputShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	p, err := NewProvider(config.TracingConfig{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   path,
		SampleRate: 1.0,
	})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "shaped.span")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record SpanRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "shaped.span", record.Name)
	assert.NotEmpty(t, record.TraceID)
	assert.NotEmpty(t, record.SpanID)
	assert.Equal(t, "INTERNAL", record.Kind)
}
