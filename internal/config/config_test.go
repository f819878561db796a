package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_MissingFile(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.NoError(err)
	assert.Equal(Default(), cfg)
}

func Test_Load_EmptyPath(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load("")
	assert.NoError(err)
	assert.Equal(Default(), cfg)
}

func Test_Load_OverridesDefaults(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lumex.toml")
	contents := `
meep_alias = "meep"
write_runtime = false

[rect]
size_x = 2.5
size_y = 2.5
size_z = 1.0

[sphere]
radius = 3
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("meep", cfg.MeepAlias)
	assert.False(cfg.WriteRuntime)
	assert.Equal(2.5, cfg.Rect.SizeX)
	assert.Equal(2.5, cfg.Rect.SizeY)
	assert.Equal(1.0, cfg.Rect.SizeZ)
	assert.Equal(3.0, cfg.Sphere.Radius)
	// FDTD/Plane/DFTMonitor were left unset by the file and should keep
	// their Default() zero values.
	assert.Equal(ShapeDefaults{}, cfg.FDTD)
}

func Test_Load_MalformedFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "lumex.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := Load(path)
	assert.Error(err)
}
