package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gputools/tritonrun/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	sub, err := fixtures.MaterializeCache(dir)
	require.NoError(t, err)
	return New(dir, nil), sub
}

func TestDefaultDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "/opt/triton-cache")
		assert.Equal(t, "/opt/triton-cache", DefaultDir())
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".triton", "cache"), DefaultDir())
	})

	t.Run("config override beats env", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "/opt/triton-cache")
		c := New("/explicit/dir", nil)
		assert.Equal(t, "/explicit/dir", c.Dir())
	})
}

func TestFindExt(t *testing.T) {
	c, sub := newFixtureCache(t)

	t.Run("finds artifacts in hash subdirectory", func(t *testing.T) {
		for _, ext := range []string{"cubin", "ptx", "json"} {
			paths, err := c.FindExt("add_kernel", ext)
			require.NoError(t, err)
			require.Len(t, paths, 1, "ext %s", ext)
			assert.Equal(t, filepath.Join(sub, "add_kernel."+ext), paths[0])
		}
	})

	t.Run("no matches for unknown kernel", func(t *testing.T) {
		paths, err := c.FindExt("mul_kernel", "cubin")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("missing cache directory", func(t *testing.T) {
		missing := New(filepath.Join(t.TempDir(), "nope"), nil)
		_, err := missing.FindExt("add_kernel", "cubin")
		assert.Error(t, err)
	})

	t.Run("sorted across subdirectories", func(t *testing.T) {
		other := filepath.Join(c.Dir(), "00ff00ff00ff00ff00ff00ff00ff00ff")
		require.NoError(t, os.MkdirAll(other, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(other, "add_kernel.cubin"), []byte("x"), 0o644))

		paths, err := c.FindExt("add_kernel", "cubin")
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(other, "add_kernel.cubin"), paths[0])
	})
}

func TestKernel(t *testing.T) {
	c, sub := newFixtureCache(t)
	k := c.Kernel("add_kernel")

	assert.Equal(t, "add_kernel", k.Name())

	cubins, err := k.Cubin()
	require.NoError(t, err)
	require.Len(t, cubins, 1)

	ptxs, err := k.PTX()
	require.NoError(t, err)
	require.Len(t, ptxs, 1)

	path, err := k.MetadataPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "add_kernel.json"), path)

	t.Run("missing metadata", func(t *testing.T) {
		_, err := c.Kernel("mul_kernel").MetadataPath()
		assert.ErrorContains(t, err, "no metadata")
	})

	t.Run("ambiguous metadata", func(t *testing.T) {
		dup := filepath.Join(c.Dir(), "11aa11aa11aa11aa11aa11aa11aa11aa")
		require.NoError(t, os.MkdirAll(dup, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dup, "add_kernel.json"), fixtures.AddKernelMetadata, 0o644))

		_, err := k.MetadataPath()
		assert.ErrorContains(t, err, "ambiguous")
	})
}

func TestList(t *testing.T) {
	c, sub := newFixtureCache(t)

	// Group manifests are not per-kernel sidecars and must be skipped.
	require.NoError(t, os.WriteFile(filepath.Join(sub, "__grp__add_kernel.json"), []byte("{}"), 0o644))

	names, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"add_kernel"}, names)
}

func TestFingerprint(t *testing.T) {
	_, sub := newFixtureCache(t)
	path := filepath.Join(sub, "add_kernel.cubin")

	fp1, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Len(t, fp1, 16)

	fp2, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	_, err = Fingerprint(filepath.Join(sub, "missing.cubin"))
	assert.Error(t, err)
}
