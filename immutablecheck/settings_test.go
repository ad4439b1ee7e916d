package immutablecheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `
format = "plain"
max-depth = 8
jobs = 4
log = "stderr"
`)

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{Format: FormatPlain, MaxDepth: 8, Jobs: 4, Log: "stderr"}, s)
}

func TestLoadSettingsKeepsDefaults(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "jobs = 2\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, FormatPretty, s.Format)
	assert.Equal(t, DefaultMaxDepth, s.MaxDepth)
	assert.Equal(t, 2, s.Jobs)
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown key", "depth = 3\n", `unknown key "depth"`},
		{"bad format", "format = \"json\"\n", `unknown format "json"`},
		{"negative jobs", "jobs = -1\n", "jobs must not be negative"},
		{"not toml", "format = \n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, t.TempDir(), tt.content)
			_, err := LoadSettings(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindSettingsFileWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeSettings(t, root, "jobs = 1\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := FindSettingsFile(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFindSettingsFilePrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "jobs = 1\n")
	inner := filepath.Join(root, "inner")
	require.NoError(t, os.Mkdir(inner, 0o755))
	want := writeSettings(t, inner, "jobs = 2\n")

	got, ok, err := FindSettingsFile(inner)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestSettingsWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultSettings(), Settings{}.withDefaults())
	assert.NoError(t, DefaultSettings().Validate())

	negative := Settings{MaxDepth: -3, Jobs: -1}.withDefaults()
	assert.Equal(t, -3, negative.MaxDepth)
	assert.Equal(t, -1, negative.Jobs)
	assert.Error(t, negative.Validate())
}

func TestNegativeSettingsAreRejected(t *testing.T) {
	_, err := NewAnalyzer(Settings{Jobs: -5})
	assert.ErrorContains(t, err, "jobs must not be negative")

	_, err = decodeSettings(map[string]any{"jobs": -2, "max-depth": -7})
	assert.ErrorContains(t, err, "max-depth must not be negative")

	assert.Error(t, Configure(Settings{MaxDepth: -1}))
	assert.Equal(t, DefaultSettings(), config)
}
