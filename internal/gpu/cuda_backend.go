//go:build cuda

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gputools/tritonrun/cuda"
	"go.uber.org/zap"
)

// CUDABackend implements Backend on top of the CUDA driver binding.
type CUDABackend struct {
	logger      *zap.Logger
	deviceIndex int
	initialized bool
	available   bool
	device      *cuda.Device
	ctx         *cuda.Context
	deviceInfo  DeviceInfo
}

// NewCUDABackend creates a new CUDA backend instance
func NewCUDABackend(logger *zap.Logger, deviceIndex int) *CUDABackend {
	backend := &CUDABackend{
		logger:      logger,
		deviceIndex: deviceIndex,
	}

	if err := backend.checkDevice(); err != nil {
		logger.Warn("CUDA device not available", zap.Error(err))
		backend.available = false
	} else {
		backend.available = true
	}

	return backend
}

// checkDevice verifies CUDA device availability
func (c *CUDABackend) checkDevice() error {
	if err := cuda.Init(); err != nil {
		return err
	}
	n, err := cuda.DeviceCount()
	if err != nil {
		return err
	}
	if c.deviceIndex >= n {
		return fmt.Errorf("device index %d out of range, %d device(s) present", c.deviceIndex, n)
	}
	return nil
}

// Initialize creates the driver context and queries device information.
func (c *CUDABackend) Initialize() error {
	if !c.available {
		return fmt.Errorf("CUDA device not available")
	}
	if c.initialized {
		return nil
	}

	c.logger.Debug("Initializing CUDA backend", zap.Int("device", c.deviceIndex))

	dev, err := cuda.GetDevice(c.deviceIndex)
	if err != nil {
		return fmt.Errorf("failed to get CUDA device: %w", err)
	}
	ctx, err := dev.CreateContext()
	if err != nil {
		return fmt.Errorf("failed to create CUDA context: %w", err)
	}

	name, err := dev.Name()
	if err != nil {
		name = "unknown"
	}
	total, err := dev.TotalMem()
	if err != nil {
		total = 0
	}
	avail := total
	if free, _, err := cuda.MemGetInfo(); err == nil {
		avail = free
	}
	major, minor, err := dev.ComputeCapability()
	if err != nil {
		major, minor = 0, 0
	}
	driver := "unknown"
	if v, err := cuda.DriverVersion(); err == nil {
		driver = fmt.Sprintf("%d.%d", v/1000, (v%1000)/10)
	}

	c.device = dev
	c.ctx = ctx
	c.deviceInfo = DeviceInfo{
		Name:              name,
		TotalMemory:       int64(total),
		AvailableMemory:   int64(avail),
		ComputeCapability: fmt.Sprintf("%d.%d", major, minor),
		DriverVersion:     driver,
		CUDAVersion:       driver,
	}
	c.initialized = true

	c.logger.Info("CUDA backend initialized",
		zap.String("device", c.deviceInfo.Name),
		zap.String("compute_capability", c.deviceInfo.ComputeCapability),
		zap.Float64("total_memory_gb", float64(c.deviceInfo.TotalMemory)/(1<<30)))

	return nil
}

// GetDeviceInfo returns information about the CUDA device
func (c *CUDABackend) GetDeviceInfo() DeviceInfo {
	return c.deviceInfo
}

// IsAvailable checks if CUDA is available
func (c *CUDABackend) IsAvailable() bool {
	return c.available
}

// Cleanup releases the driver context.
func (c *CUDABackend) Cleanup() error {
	if !c.initialized {
		return nil
	}
	c.logger.Debug("Cleaning up CUDA backend")
	if err := c.ctx.Destroy(); err != nil {
		return fmt.Errorf("failed to cleanup CUDA context: %w", err)
	}
	c.ctx = nil
	c.device = nil
	c.initialized = false
	return nil
}

// LoadModule loads a compiled kernel artifact into the device context.
func (c *CUDABackend) LoadModule(path string) (Module, error) {
	if !c.initialized {
		if err := c.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize CUDA backend: %w", err)
		}
	}
	mod, err := cuda.LoadModule(path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("loaded module", zap.String("path", path))
	return &cudaModule{backend: c, mod: mod}, nil
}

type cudaModule struct {
	backend *CUDABackend
	mod     *cuda.Module
}

// Launch stages buffer arguments to device memory, runs the kernel
// synchronously and copies output buffers back.
func (m *cudaModule) Launch(symbol string, cfg LaunchConfig, args []Arg) error {
	fn, err := m.mod.GetFunction(symbol)
	if err != nil {
		return err
	}

	devPtrs := make([]cuda.DevicePtr, len(args))
	scalars := make([]uint32, len(args))
	params := make([]unsafe.Pointer, len(args))
	defer func() {
		for _, p := range devPtrs {
			if p != 0 {
				_ = cuda.MemFree(p)
			}
		}
	}()

	for i, arg := range args {
		if arg.Buffer == nil {
			scalars[i] = arg.Scalar
			params[i] = unsafe.Pointer(&scalars[i])
			continue
		}
		size := uintptr(len(arg.Buffer)) * unsafe.Sizeof(float32(0))
		p, err := cuda.MemAlloc(size)
		if err != nil {
			return fmt.Errorf("allocate device buffer for arg %d: %w", i, err)
		}
		devPtrs[i] = p
		if err := cuda.MemcpyHtoD(p, unsafe.Pointer(&arg.Buffer[0]), size); err != nil {
			return fmt.Errorf("copy arg %d to device: %w", i, err)
		}
		params[i] = unsafe.Pointer(&devPtrs[i])
	}

	if err := fn.Launch(
		cfg.GridDim[0], cfg.GridDim[1], cfg.GridDim[2],
		cfg.BlockDim[0], cfg.BlockDim[1], cfg.BlockDim[2],
		cfg.SharedMemBytes, params); err != nil {
		return err
	}
	if err := cuda.Synchronize(); err != nil {
		return err
	}

	for i, arg := range args {
		if arg.Buffer == nil || !arg.Out {
			continue
		}
		size := uintptr(len(arg.Buffer)) * unsafe.Sizeof(float32(0))
		if err := cuda.MemcpyDtoH(unsafe.Pointer(&arg.Buffer[0]), devPtrs[i], size); err != nil {
			return fmt.Errorf("copy arg %d from device: %w", i, err)
		}
	}
	return nil
}

func (m *cudaModule) Close() error {
	return m.mod.Unload()
}
