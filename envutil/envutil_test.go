package envutil

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME"    envDefault:"finstate"`
	Enabled bool          `env:"SAMPLE_ENABLED" envDefault:"false"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" envDefault:"5s"`
	Level   slog.Level    `env:"SAMPLE_LEVEL"   envDefault:"info"`
	Ignored string
}

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom[sample](map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, sample{Name: "finstate", Timeout: 5 * time.Second, Level: slog.LevelInfo}, cfg)
}

func TestLoadFromValues(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom[sample](map[string]string{
		"SAMPLE_NAME":    "machines",
		"SAMPLE_ENABLED": "true",
		"SAMPLE_TIMEOUT": "250ms",
		"SAMPLE_LEVEL":   "warn",
	})
	require.NoError(t, err)

	assert.Equal(t, "machines", cfg.Name)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, slog.LevelWarn, cfg.Level)
}

func TestLoadFromInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
	}{
		{name: "bool", environ: map[string]string{"SAMPLE_ENABLED": "maybe"}},
		{name: "duration", environ: map[string]string{"SAMPLE_TIMEOUT": "soon"}},
		{name: "level", environ: map[string]string{"SAMPLE_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFrom[sample](tt.environ)
			require.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-process")
	t.Setenv("SAMPLE_LEVEL", "debug")

	cfg, err := Load[sample]()
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.Name)
	assert.Equal(t, slog.LevelDebug, cfg.Level)
}
