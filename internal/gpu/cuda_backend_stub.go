//go:build !cuda

package gpu

import "go.uber.org/zap"

// CUDABackend is a stub type when CUDA support is not compiled in
type CUDABackend struct {
	logger *zap.Logger
}

// Stub implementations to satisfy the Backend interface
func (c *CUDABackend) LoadModule(path string) (Module, error) {
	panic("CUDA backend not available")
}

func (c *CUDABackend) GetDeviceInfo() DeviceInfo {
	return DeviceInfo{Name: "CUDA not available"}
}

func (c *CUDABackend) IsAvailable() bool {
	return false
}

func (c *CUDABackend) Initialize() error {
	panic("CUDA backend not available")
}

func (c *CUDABackend) Cleanup() error {
	return nil
}
