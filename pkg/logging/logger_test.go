package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesStructuredLines(t *testing.T) {
	require.NoError(t, Close())
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelDebug, Format: "json", Writer: &buf}))
	assert.Error(t, Init(Config{}), "second Init must fail")

	id := uuid.New()
	WithQuery(id).Debug("plan built", "rows", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "plan built", line["msg"])
	assert.Equal(t, id.String(), line["query_id"])
	assert.Equal(t, float64(3), line["rows"])
}

func TestLevelFilters(t *testing.T) {
	require.NoError(t, Close())
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: LevelWarn, Writer: &buf}))

	WithComponent("planner").Info("hidden")
	assert.Zero(t, buf.Len())

	WithTable("emp").Warn("shown")
	assert.Contains(t, buf.String(), "table=emp")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestGetLoggerLazyInit(t *testing.T) {
	require.NoError(t, Close())
	t.Cleanup(func() { _ = Close() })

	assert.NotNil(t, GetLogger())
}
