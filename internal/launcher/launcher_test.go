package launcher

import (
	"testing"

	"github.com/gputools/tritonrun/fixtures"
	"github.com/gputools/tritonrun/internal/cache"
	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/gputools/tritonrun/internal/kernels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLauncher(t *testing.T) *Launcher {
	t.Helper()
	dir := t.TempDir()
	_, err := fixtures.MaterializeCache(dir)
	require.NoError(t, err)

	manager, err := gpu.NewManager(zap.NewNop(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Cleanup() })

	return New(cache.New(dir, nil), manager, zap.NewNop(), 0)
}

func TestRunVectorAdd(t *testing.T) {
	l := newTestLauncher(t)

	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	res, err := l.RunVectorAdd("add_kernel", kernels.AddKernel, a, b)
	require.NoError(t, err)

	assert.Equal(t, []float32{5, 7, 9}, res.Output)
	assert.Equal(t, "add_kernel", res.Kernel)
	assert.Equal(t, kernels.AddKernel, res.Symbol)
	assert.NotEmpty(t, res.Backend)
	assert.NotEmpty(t, res.Artifact)

	require.NoError(t, l.Verify(res, a, b))
}

func TestRunVectorAddSymbolFromMetadata(t *testing.T) {
	l := newTestLauncher(t)

	res, err := l.RunVectorAdd("add_kernel", "", []float32{1}, []float32{2})
	require.NoError(t, err)

	// Empty symbol resolves to the mangled name from the sidecar.
	assert.Equal(t, "add_kernel_0d1d2d3de", res.Symbol)
	assert.Equal(t, []float32{3}, res.Output)
}

func TestRunVectorAddErrors(t *testing.T) {
	l := newTestLauncher(t)

	t.Run("length mismatch", func(t *testing.T) {
		_, err := l.RunVectorAdd("add_kernel", "", []float32{1}, []float32{1, 2})
		assert.ErrorContains(t, err, "length mismatch")
	})

	t.Run("unknown kernel", func(t *testing.T) {
		_, err := l.RunVectorAdd("mul_kernel", "", []float32{1}, []float32{2})
		assert.ErrorContains(t, err, "no metadata")
	})
}

func TestVerify(t *testing.T) {
	l := newTestLauncher(t)

	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	t.Run("detects wrong device output", func(t *testing.T) {
		res := &Result{Kernel: "add_kernel", Output: []float32{5, 7, 10}}
		err := l.Verify(res, a, b)
		assert.ErrorContains(t, err, "verification failed at index 2")
	})

	t.Run("detects length mismatch", func(t *testing.T) {
		res := &Result{Kernel: "add_kernel", Output: []float32{5, 7}}
		assert.Error(t, l.Verify(res, a, b))
	})

	t.Run("tolerance allows rounding error", func(t *testing.T) {
		loose := New(l.cache, l.manager, nil, 0.01)
		res := &Result{Kernel: "add_kernel", Output: []float32{5.001, 7, 9}}
		assert.NoError(t, loose.Verify(res, a, b))
	})
}
