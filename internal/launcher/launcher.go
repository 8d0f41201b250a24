// Package launcher wires the kernel cache to a device backend: locate a
// compiled artifact and its metadata, load it, launch it with the
// geometry the metadata implies, and verify the device result against a
// CPU-computed expectation.
package launcher

import (
	"fmt"
	"math"
	"time"

	"github.com/gputools/tritonrun/internal/cache"
	"github.com/gputools/tritonrun/internal/gpu"
	"github.com/gputools/tritonrun/internal/metrics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Launcher runs cached kernels through the selected backend.
type Launcher struct {
	cache     *cache.Cache
	manager   *gpu.Manager
	log       *zap.Logger
	tolerance float64
}

// New returns a Launcher. A tolerance of zero falls back to 1e-6.
func New(c *cache.Cache, m *gpu.Manager, log *zap.Logger, tolerance float64) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	if tolerance == 0 {
		tolerance = 1e-6
	}
	return &Launcher{cache: c, manager: m, log: log.Named("launcher"), tolerance: tolerance}
}

// Result describes one completed kernel launch.
type Result struct {
	Kernel   string
	Symbol   string
	Backend  string
	Artifact string
	Output   []float32
	Elapsed  time.Duration
}

// locateArtifact prefers the device binary and falls back to PTX, which
// the driver can also load.
func (l *Launcher) locateArtifact(k *cache.Kernel) (string, error) {
	cubins, err := k.Cubin()
	if err != nil {
		return "", err
	}
	metrics.CacheLookups.WithLabelValues("cubin", lookupResult(len(cubins))).Inc()
	if len(cubins) > 0 {
		return cubins[0], nil
	}

	ptxs, err := k.PTX()
	if err != nil {
		return "", err
	}
	metrics.CacheLookups.WithLabelValues("ptx", lookupResult(len(ptxs))).Inc()
	if len(ptxs) > 0 {
		return ptxs[0], nil
	}

	return "", fmt.Errorf("no compiled artifact for kernel %q under %s", k.Name(), l.cache.Dir())
}

func lookupResult(n int) string {
	if n > 0 {
		return "hit"
	}
	return "miss"
}

// RunVectorAdd launches the named elementwise-add kernel on inputs a
// and b and returns the device-computed sum. An empty symbol falls back
// to the mangled name recorded in the kernel's metadata.
func (l *Launcher) RunVectorAdd(kernelName, symbol string, a, b []float32) (*Result, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("input length mismatch: %d vs %d", len(a), len(b))
	}

	k := l.cache.Kernel(kernelName)
	meta, err := k.Metadata()
	if err != nil {
		return nil, err
	}
	if symbol == "" {
		symbol = meta.Name
	}

	artifact, err := l.locateArtifact(k)
	if err != nil {
		return nil, err
	}

	fp, err := cache.Fingerprint(artifact)
	if err != nil {
		return nil, err
	}
	l.log.Debug("located kernel artifact",
		zap.String("kernel", kernelName),
		zap.String("symbol", symbol),
		zap.String("artifact", artifact),
		zap.String("fingerprint", fp),
		zap.String("target", meta.TargetString()),
		zap.Uint32("num_warps", meta.NumWarps))

	start := time.Now()
	module, err := l.manager.LoadModule(artifact)
	if err != nil {
		return nil, fmt.Errorf("load kernel module: %w", err)
	}
	defer module.Close()

	// Launch geometry follows the metadata: one thread block per
	// implied thread, matching how the compiled instance was demoed.
	cfg := gpu.LaunchConfig{
		GridDim:  [3]uint32{meta.NumThreads(), 1, 1},
		BlockDim: [3]uint32{1, 1, 1},
	}

	out := make([]float32, len(a))
	args := []gpu.Arg{gpu.In(a), gpu.In(b), gpu.Out(out), gpu.Scalar(uint32(len(a)))}

	if err := module.Launch(symbol, cfg, args); err != nil {
		return nil, fmt.Errorf("launch kernel %q: %w", symbol, err)
	}
	elapsed := time.Since(start)

	backend := l.manager.GetBackendType()
	metrics.LaunchDuration.Observe(float64(elapsed.Microseconds()) / 1000.0)
	metrics.Launches.WithLabelValues(backend).Inc()

	l.log.Info("kernel launch completed",
		zap.String("kernel", kernelName),
		zap.String("backend", backend),
		zap.Duration("elapsed", elapsed))

	return &Result{
		Kernel:   kernelName,
		Symbol:   symbol,
		Backend:  backend,
		Artifact: artifact,
		Output:   out,
		Elapsed:  elapsed,
	}, nil
}

// Verify compares the device output against an independently computed
// CPU expectation for the elementwise sum of a and b.
func (l *Launcher) Verify(res *Result, a, b []float32) error {
	if len(res.Output) != len(a) || len(a) != len(b) {
		return fmt.Errorf("output length %d does not match inputs", len(res.Output))
	}

	// Compute the expectation in float64 to keep the reference exact
	// for small inputs.
	expected := gpu.Float32ToFloat64(a)
	floats.Add(expected, gpu.Float32ToFloat64(b))

	got := gpu.Float32ToFloat64(res.Output)
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > l.tolerance {
			metrics.VerificationFailures.Inc()
			return fmt.Errorf("verification failed at index %d: device %g, expected %g",
				i, got[i], expected[i])
		}
	}

	l.log.Debug("device result verified against CPU expectation",
		zap.String("kernel", res.Kernel),
		zap.Int("elements", len(expected)))
	return nil
}
