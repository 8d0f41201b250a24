package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gputools/tritonrun/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add_kernel.json")
	require.NoError(t, os.WriteFile(path, fixtures.AddKernelMetadata, 0o644))

	m, err := ReadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, "add_kernel_0d1d2d3de", m.Name)
	assert.Equal(t, uint32(4), m.NumWarps)
	assert.Equal(t, uint32(1), m.NumCTAs)
	assert.Equal(t, uint32(3), m.NumStages)
	assert.Equal(t, []uint32{1, 1, 1}, m.ClusterDims)
	require.NotNil(t, m.PTXVersion)
	assert.Equal(t, uint32(82), *m.PTXVersion)
	assert.Equal(t, uint32(0), m.SharedMem)
	assert.True(t, m.EnableFPFusion)
	assert.False(t, m.EnableTMA)
	assert.Equal(t, []uint32{1, 3}, m.IDsOfFoldedArgs)
	assert.Nil(t, m.IDsOfTensormaps)
	require.NotNil(t, m.Debug)
	assert.False(t, *m.Debug)
}

func TestMetadataTargetString(t *testing.T) {
	m := &Metadata{Target: []any{"cuda", float64(80)}}
	assert.Equal(t, "cuda80", m.TargetString())

	m = &Metadata{Target: []any{"hip", "gfx90a"}}
	assert.Equal(t, "hipgfx90a", m.TargetString())

	m = &Metadata{}
	assert.Equal(t, "", m.TargetString())
}

func TestMetadataNumThreads(t *testing.T) {
	m := &Metadata{NumWarps: 4}
	assert.Equal(t, uint32(128), m.NumThreads())
}

func TestReadMetadataErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadMetadata(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := ReadMetadata(path)
		assert.ErrorContains(t, err, "decode kernel metadata")
	})

	t.Run("kernel accessor decodes sidecar", func(t *testing.T) {
		dir := t.TempDir()
		_, err := fixtures.MaterializeCache(dir)
		require.NoError(t, err)

		m, err := New(dir, nil).Kernel("add_kernel").Metadata()
		require.NoError(t, err)
		assert.Contains(t, m.Name, "add_kernel")
	})
}
