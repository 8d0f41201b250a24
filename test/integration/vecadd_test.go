//go:build integration

package integration

import (
	"testing"

	"github.com/gputools/tritonrun/fixtures"
	"github.com/gputools/tritonrun/internal/cache"
	"github.com/gputools/tritonrun/internal/config"
	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/gputools/tritonrun/internal/kernels"
	"github.com/gputools/tritonrun/internal/launcher"
	"github.com/gputools/tritonrun/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

// TestVectorAdd_EndToEnd wires the full stack the way the CLI does and
// launches the cached add_kernel against a fixture cache tree. Without
// the cuda build tag the manager selects the CPU backend, so the test
// runs anywhere.
func TestVectorAdd_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	_, err := fixtures.MaterializeCache(dir)
	require.NoError(t, err)

	var l *launcher.Launcher
	var manager *gpu.Manager

	app := fxtest.New(t,
		fx.Provide(
			func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Cache.Dir = dir
				cfg.Logger.Verbosity = "debug"
				return cfg
			},
			func(cfg *config.Config) (*zap.Logger, error) {
				return logger.New(cfg.Logger.Verbosity)
			},
			func(cfg *config.Config, log *zap.Logger) *cache.Cache {
				return cache.New(cfg.Cache.Dir, log)
			},
			func(cfg *config.Config, log *zap.Logger) (*gpu.Manager, error) {
				return gpu.NewManager(log, cfg.Device.Index)
			},
			func(cfg *config.Config, c *cache.Cache, m *gpu.Manager, log *zap.Logger) *launcher.Launcher {
				return launcher.New(c, m, log, cfg.Launch.Tolerance)
			},
		),
		fx.Populate(&l, &manager),
	)
	app.RequireStart()
	defer app.RequireStop()
	defer manager.Cleanup()

	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	res, err := l.RunVectorAdd("add_kernel", kernels.AddKernel, a, b)
	require.NoError(t, err)

	assert.Equal(t, []float32{5, 7, 9}, res.Output)
	assert.Equal(t, kernels.AddKernel, res.Symbol)
	require.NoError(t, l.Verify(res, a, b))
}
