package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traincal", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 15, cfg.TimeoutSeconds)

	_, err = os.Stat(path)
	require.NoError(t, err, "first run must persist the defaults")

	// Second load reads back the same config.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://cal.example.ro/api\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cal.example.ro/api", cfg.BaseURL)
	assert.Equal(t, 15, cfg.TimeoutSeconds, "missing timeout falls back to default")
	assert.Equal(t, "ro", cfg.Locale)
	assert.Equal(t, "dayGridMonth", cfg.View)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize_RejectsUnknownView(t *testing.T) {
	cfg := &Config{View: "listYear", TimeoutSeconds: -1}
	cfg.Normalize()
	assert.Equal(t, "dayGridMonth", cfg.View)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Config{BaseURL: "https://cal.example.ro/api", TimeoutSeconds: 30, View: "timeGridWeek"}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cal.example.ro/api", out.BaseURL)
	assert.Equal(t, 30, out.TimeoutSeconds)
	assert.Equal(t, "timeGridWeek", out.View)
}
