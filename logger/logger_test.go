package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))

		out = append(out, m)
	}

	return out
}

func TestGetCarriesSubsystemAndValues(t *testing.T) { //nolint:paralleltest // Modifies the default logger
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		Output:    &buf,
	})

	Get(context.Background()).Info("plain")

	ctx := With(context.Background(), "machine", "energy")
	ctx = With(ctx, "state", "potential")
	Get(ctx).Info("with values")

	Get(WithSubsystem(ctx, "overridden")).Info("overridden")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "test", lines[0]["subsystem"])
	assert.Equal(t, "energy", lines[1]["machine"])
	assert.Equal(t, "potential", lines[1]["state"])
	assert.Equal(t, "overridden", lines[2]["subsystem"])
}

func TestMutedContextDiscards(t *testing.T) { //nolint:paralleltest // Modifies the default logger
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{Subsystem: "test", JSON: true, Output: &buf})

	Get(WithMuted(context.Background(), true)).Error("should not appear")
	Get(WithMuted(context.Background(), false)).Info("should appear")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "should appear", lines[0]["msg"])
}

func TestExtraHandlerReceivesRecords(t *testing.T) { //nolint:paralleltest // Modifies the default logger
	var primary, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		Output:    &primary,
		Extra:     slog.NewJSONHandler(&extra, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})

	Get(context.Background()).Info("info only")
	Get(context.Background()).Warn("both")

	assert.Len(t, decodeLines(t, &primary), 2)

	extraLines := decodeLines(t, &extra)
	require.Len(t, extraLines, 1)
	assert.Equal(t, "both", extraLines[0]["msg"])
	assert.Equal(t, "test", extraLines[0]["subsystem"])
}

func TestConfigureLoggingFromEnv(t *testing.T) { //nolint:paralleltest // Uses t.Setenv
	var buf bytes.Buffer

	t.Setenv("LOG_JSON", "true")
	t.Setenv("LOG_LEVEL", "warn")

	_, err := ConfigureLogging(context.Background(), "envtest", WithOutput(&buf))
	require.NoError(t, err)

	Get(context.Background()).Info("filtered")
	Get(context.Background()).Warn("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "envtest", lines[0]["subsystem"])
}

func TestConfigureLoggingRejectsBadEnv(t *testing.T) { //nolint:paralleltest // Uses t.Setenv
	t.Setenv("LOG_OUTPUT", "somewhere")

	_, err := ConfigureLogging(context.Background(), "envtest")
	require.ErrorIs(t, err, ErrInvalidLogOutput)

	t.Setenv("LOG_OUTPUT", "")
	t.Setenv("LOG_JSON", "maybe")

	_, err = ConfigureLogging(context.Background(), "envtest")
	require.Error(t, err)
}
