package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattfource/clinfo/internal/clrt"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range Keys() {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			os.Unsetenv(key)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config")
	content := `# clinfo settings
CLINFO_BACKEND=fixture
CLINFO_FIXTURE=/tmp/gpu.yaml
CLINFO_IMAGE_FORMATS=on
CLINFO_IMAGE_ACCESS="read-write"
CLINFO_IMAGE_TYPE=3d
CLINFO_LOG_LEVEL=debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fixture", cfg.Backend)
	assert.Equal(t, "/tmp/gpu.yaml", cfg.Fixture)
	assert.True(t, cfg.ImageFormats)
	assert.Equal(t, "read-write", cfg.ImageAccess)
	assert.Equal(t, "3d", cfg.ImageType)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, clrt.MemReadWrite, cfg.MemFlags())
	assert.Equal(t, clrt.MemObjectImage3D, cfg.MemObjectType())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("CLINFO_BACKEND=opencl\nCLINFO_IMAGE_TYPE=3d\n"), 0644))

	t.Setenv("CLINFO_BACKEND", "wgpu")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "wgpu", cfg.Backend)
	assert.Equal(t, "3d", cfg.ImageType)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.ImageAccess = "sideways"
	assert.ErrorContains(t, cfg.Validate(), "image access")

	cfg = Default()
	cfg.ImageType = "1d"
	assert.ErrorContains(t, cfg.Validate(), "image type")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config")

	cfg := Default()
	cfg.Backend = "fixture"
	cfg.Fixture = "/srv/fixtures/lab machine.yaml"
	cfg.ImageFormats = true
	cfg.ImageAccess = "write-only"
	require.NoError(t, SaveFile(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, clrt.MemWriteOnly, loaded.MemFlags())
}
