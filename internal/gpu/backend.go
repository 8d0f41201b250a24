package gpu

// DeviceInfo contains information about the compute device
type DeviceInfo struct {
	Name              string `json:"name"`
	TotalMemory       int64  `json:"totalMemory"`     // in bytes
	AvailableMemory   int64  `json:"availableMemory"` // in bytes
	ComputeCapability string `json:"computeCapability"`
	DriverVersion     string `json:"driverVersion"`
	CUDAVersion       string `json:"cudaVersion,omitempty"`
}

// LaunchConfig is the grid/block geometry for one kernel launch.
type LaunchConfig struct {
	GridDim        [3]uint32
	BlockDim       [3]uint32
	SharedMemBytes uint32
}

// Arg is a single kernel launch argument. A non-nil Buffer is staged to
// device memory before the launch; Out buffers are additionally copied
// back afterwards. When Buffer is nil the argument is a 32-bit scalar.
type Arg struct {
	Buffer []float32
	Out    bool
	Scalar uint32
}

// In wraps a read-only input buffer argument.
func In(buf []float32) Arg { return Arg{Buffer: buf} }

// Out wraps a buffer argument whose device contents are copied back
// into buf after the launch.
func Out(buf []float32) Arg { return Arg{Buffer: buf, Out: true} }

// Scalar wraps a 32-bit scalar argument.
func Scalar(n uint32) Arg { return Arg{Scalar: n} }

// Module is a loaded kernel module. Launch is synchronous: the backend
// stages buffer arguments, runs the kernel, waits for completion and
// copies Out buffers back.
type Module interface {
	Launch(symbol string, cfg LaunchConfig, args []Arg) error
	Close() error
}

// Backend defines the interface for kernel execution backends.
//
// Implementation notes:
//   - Backends own the device memory lifecycle around each launch
//   - Fallback selection is handled by the Manager, not the backend
//   - Cleanup must release any driver context to avoid leaks
type Backend interface {
	// LoadModule loads a compiled kernel artifact (cubin or PTX) from
	// a file path.
	LoadModule(path string) (Module, error)

	// GetDeviceInfo returns information about the backing device.
	GetDeviceInfo() DeviceInfo

	// IsAvailable checks if the backend can be used without heavy
	// initialization.
	IsAvailable() bool

	// Initialize prepares the backend for use. Called once before the
	// first LoadModule.
	Initialize() error

	// Cleanup releases resources held by the backend.
	Cleanup() error
}
