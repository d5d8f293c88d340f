package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string  `json:"base_url"`
	Timeout float64 `json:"timeout"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "run.json5")
	writeFile(t, name, `{base_url: "https://example.com", timeout: 15}`)

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", config.BaseUrl)
	require.Equal(t, 15.0, config.Timeout)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "run.json5"), `{base_url: "https://example.com", timeout: 15}`)
	writeFile(t, filepath.Join(dir, "run.local.json5"), `{base_url: "https://staging.example.com"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "run.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", config.BaseUrl)
	require.Equal(t, 15.0, config.Timeout)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.True(t, os.IsNotExist(err))
}
