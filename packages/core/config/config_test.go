package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, "dated", c.Variant)
	assert.Equal(t, 88, c.MissingGetID)
	assert.Equal(t, 77, c.MissingDeleteID)
	assert.False(t, c.GetBail())
	assert.True(t, c.IsDefault())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	c, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, c.IsDefault())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "itemprobe.yaml", `
baseUrl: http://localhost:9090/api/items
variant: vendor
timeout: 2500
rate: 4
dateFormat: dd.MM.yyyy HH:mm:ss.fff
bail: true
headers:
  Authorization: Bearer token
`)

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090/api/items", c.BaseURL)
	assert.Equal(t, "vendor", c.Variant)
	assert.Equal(t, 2500, c.GetTimeout())
	assert.Equal(t, 4.0, c.GetRate())
	assert.Equal(t, "dd.MM.yyyy HH:mm:ss.fff", c.DateFormat)
	assert.True(t, c.GetBail())
	assert.Equal(t, "Bearer token", c.Headers["Authorization"])
	// Unset keys keep their defaults.
	assert.Equal(t, 88, c.MissingGetID)
	assert.Equal(t, DefaultOutput, c.Output)
	assert.False(t, c.IsDefault())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "itemprobe.json", `{"variant":"basic","missingGetId":999,"validateSchema":true}`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "basic", c.Variant)
	assert.Equal(t, 999, c.MissingGetID)
	assert.True(t, c.GetValidateSchema())
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".itemprobe.yaml", "variant: vendor\n")
	writeFile(t, dir, "itemprobe.json", `{"variant":"basic"}`)

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "vendor", c.Variant)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "variant: [unterminated\n")
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"X-Team": "qa"}

	merged := base.Merge(&Config{
		BaseURL: "http://example.test/api/items",
		Rate:    FloatPtr(2),
		Bail:    BoolPtr(true),
		Headers: map[string]string{"X-Env": "ci"},
	})

	assert.Equal(t, "http://example.test/api/items", merged.BaseURL)
	assert.Equal(t, DefaultVariant, merged.Variant)
	assert.Equal(t, 2.0, merged.GetRate())
	assert.True(t, merged.GetBail())
	assert.Equal(t, map[string]string{"X-Team": "qa", "X-Env": "ci"}, merged.Headers)

	// The receiver is left untouched.
	assert.False(t, base.GetBail())
	assert.Len(t, base.Headers, 1)

	assert.Same(t, base, base.Merge(nil))
}

func TestMerge_ExplicitZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "itemprobe.yaml", "timeout: 2500\nrate: 4\nmissingGetId: 999\n")
	file, err := LoadConfig(path)
	require.NoError(t, err)

	// Zero overrides still win for timeout and rate.
	merged := file.Merge(&Config{Timeout: IntPtr(0), Rate: FloatPtr(0)})
	assert.Equal(t, 0, merged.GetTimeout())
	assert.Equal(t, 0.0, merged.GetRate())
	assert.Equal(t, 999, merged.MissingGetID)

	// Unset overrides keep the file values.
	merged = file.Merge(&Config{})
	assert.Equal(t, 2500, merged.GetTimeout())
	assert.Equal(t, 4.0, merged.GetRate())
}

func TestLoadConfig_ExplicitZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "itemprobe.json", `{"timeout":0,"rate":0}`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, c.Timeout)
	require.NotNil(t, c.Rate)
	assert.Equal(t, 0, c.GetTimeout())
	assert.True(t, c.IsDefault())
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	c := DefaultConfig()
	c.Variant = "vendor"
	c.Rate = FloatPtr(1.5)

	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, c.SaveConfig(path))

		loaded, err := LoadConfig(path)
		require.NoError(t, err, name)
		assert.Equal(t, "vendor", loaded.Variant, name)
		assert.Equal(t, 1.5, loaded.GetRate(), name)
	}
}
