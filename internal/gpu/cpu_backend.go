package gpu

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// refKernel is a host-side reference implementation of a device kernel.
type refKernel func(cfg LaunchConfig, args []Arg) error

// CPUBackend implements Backend as a fallback when no GPU is present.
// It cannot execute compiled device binaries; instead it resolves
// launched symbols against built-in reference kernels keyed by the
// unmangled kernel name prefix.
type CPUBackend struct {
	logger      *zap.Logger
	initialized bool
	kernels     map[string]refKernel
}

// NewCPUBackend creates a new CPU backend instance
func NewCPUBackend(logger *zap.Logger) *CPUBackend {
	return &CPUBackend{
		logger: logger,
		kernels: map[string]refKernel{
			"add_kernel": refAddKernel,
		},
	}
}

// Initialize prepares the CPU backend for use
func (c *CPUBackend) Initialize() error {
	if c.initialized {
		return nil
	}
	c.initialized = true
	c.logger.Info("CPU backend initialized")
	return nil
}

// Cleanup releases any resources (none for CPU backend)
func (c *CPUBackend) Cleanup() error {
	c.initialized = false
	return nil
}

// IsAvailable checks if the backend is available (always true for CPU)
func (c *CPUBackend) IsAvailable() bool {
	return true
}

// GetDeviceInfo returns device information for CPU
func (c *CPUBackend) GetDeviceInfo() DeviceInfo {
	return DeviceInfo{
		Name:              fmt.Sprintf("CPU (%s)", runtime.GOARCH),
		TotalMemory:       getTotalSystemMemory(),
		AvailableMemory:   getAvailableSystemMemory(),
		ComputeCapability: "N/A",
		DriverVersion:     runtime.Version(),
	}
}

// LoadModule verifies the artifact exists and returns a module whose
// launches are served by reference kernels. The artifact contents are
// never parsed.
func (c *CPUBackend) LoadModule(path string) (Module, error) {
	if !c.initialized {
		return nil, fmt.Errorf("CPU backend not initialized")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	c.logger.Debug("loaded module on CPU backend", zap.String("path", path))
	return &cpuModule{backend: c, path: path}, nil
}

type cpuModule struct {
	backend *CPUBackend
	path    string
}

// Launch resolves the mangled symbol to a built-in reference kernel.
// Mangled Triton symbols carry the user name as a prefix, e.g.
// "add_kernel_0d1d2d3de".
func (m *cpuModule) Launch(symbol string, cfg LaunchConfig, args []Arg) error {
	for name, fn := range m.backend.kernels {
		if strings.HasPrefix(symbol, name) {
			m.backend.logger.Debug("launching reference kernel",
				zap.String("symbol", symbol),
				zap.String("kernel", name))
			return fn(cfg, args)
		}
	}
	return fmt.Errorf("no reference kernel for symbol %q", symbol)
}

func (m *cpuModule) Close() error {
	return nil
}

// refAddKernel implements the elementwise add kernel: c[i] = a[i] + b[i]
// for i < n, with the (a, b, c, n) argument layout the compiled kernel
// uses.
func refAddKernel(cfg LaunchConfig, args []Arg) error {
	if len(args) != 4 {
		return fmt.Errorf("add kernel expects 4 arguments, got %d", len(args))
	}
	a, b, out := args[0].Buffer, args[1].Buffer, args[2].Buffer
	if a == nil || b == nil || out == nil {
		return fmt.Errorf("add kernel expects three buffer arguments")
	}
	if !args[2].Out {
		return fmt.Errorf("add kernel third argument must be an output buffer")
	}
	n := int(args[3].Scalar)
	if n > len(a) || n > len(b) || n > len(out) {
		return fmt.Errorf("add kernel length %d exceeds buffer sizes", n)
	}
	for i := 0; i < n; i++ {
		out[i] = a[i] + b[i]
	}
	return nil
}
