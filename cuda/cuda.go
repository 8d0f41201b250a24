//go:build cuda

package cuda

/*
#cgo LDFLAGS: -lcuda
#include <cuda.h>
#include <stdlib.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// DevicePtr is a raw device memory address.
type DevicePtr C.CUdeviceptr

// Device is an initialized CUDA device handle.
type Device struct {
	dev   C.CUdevice
	index int
}

// Context is a driver context bound to one device.
type Context struct {
	ctx C.CUcontext
}

// Module is a loaded kernel module (cubin or PTX).
type Module struct {
	mod C.CUmodule
}

// Function is a kernel entry point resolved from a module.
type Function struct {
	fn C.CUfunction
}

func result(res C.CUresult, op string) error {
	if res == C.CUDA_SUCCESS {
		return nil
	}
	var msg *C.char
	if C.cuGetErrorString(res, &msg) != C.CUDA_SUCCESS || msg == nil {
		return fmt.Errorf("%s: CUDA error %d", op, int(res))
	}
	return fmt.Errorf("%s: %s", op, C.GoString(msg))
}

// Init initializes the driver API. Must be called before any other
// binding call.
func Init() error {
	return result(C.cuInit(0), "cuInit")
}

// DeviceCount returns the number of CUDA-capable devices.
func DeviceCount() (int, error) {
	var n C.int
	if err := result(C.cuDeviceGetCount(&n), "cuDeviceGetCount"); err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetDevice returns a handle for the device at index.
func GetDevice(index int) (*Device, error) {
	var dev C.CUdevice
	if err := result(C.cuDeviceGet(&dev, C.int(index)), "cuDeviceGet"); err != nil {
		return nil, err
	}
	return &Device{dev: dev, index: index}, nil
}

// Name returns the device's marketing name.
func (d *Device) Name() (string, error) {
	buf := make([]C.char, 256)
	if err := result(C.cuDeviceGetName(&buf[0], C.int(len(buf)), d.dev), "cuDeviceGetName"); err != nil {
		return "", err
	}
	return C.GoString(&buf[0]), nil
}

// TotalMem returns the device's total global memory in bytes.
func (d *Device) TotalMem() (uint64, error) {
	var n C.size_t
	if err := result(C.cuDeviceTotalMem(&n, d.dev), "cuDeviceTotalMem"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// ComputeCapability returns the device's compute capability.
func (d *Device) ComputeCapability() (major, minor int, err error) {
	var maj, min C.int
	if err = result(C.cuDeviceGetAttribute(&maj, C.CU_DEVICE_ATTRIBUTE_COMPUTE_CAPABILITY_MAJOR, d.dev), "cuDeviceGetAttribute"); err != nil {
		return 0, 0, err
	}
	if err = result(C.cuDeviceGetAttribute(&min, C.CU_DEVICE_ATTRIBUTE_COMPUTE_CAPABILITY_MINOR, d.dev), "cuDeviceGetAttribute"); err != nil {
		return 0, 0, err
	}
	return int(maj), int(min), nil
}

// DriverVersion returns the installed driver version as
// major*1000 + minor*10.
func DriverVersion() (int, error) {
	var v C.int
	if err := result(C.cuDriverGetVersion(&v), "cuDriverGetVersion"); err != nil {
		return 0, err
	}
	return int(v), nil
}

// CreateContext creates and makes current a context on the device.
func (d *Device) CreateContext() (*Context, error) {
	var ctx C.CUcontext
	if err := result(C.cuCtxCreate(&ctx, 0, d.dev), "cuCtxCreate"); err != nil {
		return nil, err
	}
	return &Context{ctx: ctx}, nil
}

// Destroy tears down the context.
func (c *Context) Destroy() error {
	return result(C.cuCtxDestroy(c.ctx), "cuCtxDestroy")
}

// Synchronize blocks until all preceding work on the current context
// has completed.
func Synchronize() error {
	return result(C.cuCtxSynchronize(), "cuCtxSynchronize")
}

// LoadModule loads a compiled module (cubin or PTX) from a file path.
func LoadModule(path string) (*Module, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var mod C.CUmodule
	if err := result(C.cuModuleLoad(&mod, cpath), "cuModuleLoad"); err != nil {
		return nil, err
	}
	return &Module{mod: mod}, nil
}

// Unload releases the module.
func (m *Module) Unload() error {
	return result(C.cuModuleUnload(m.mod), "cuModuleUnload")
}

// GetFunction resolves a kernel by its mangled symbol name. The symbol
// must match the compiler-generated name exactly.
func (m *Module) GetFunction(symbol string) (*Function, error) {
	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))

	var fn C.CUfunction
	if err := result(C.cuModuleGetFunction(&fn, m.mod, csym), "cuModuleGetFunction"); err != nil {
		return nil, fmt.Errorf("resolve kernel symbol %q: %w", symbol, err)
	}
	return &Function{fn: fn}, nil
}

// MemGetInfo returns the free and total device memory in bytes for the
// current context.
func MemGetInfo() (free, total uint64, err error) {
	var f, t C.size_t
	if err := result(C.cuMemGetInfo(&f, &t), "cuMemGetInfo"); err != nil {
		return 0, 0, err
	}
	return uint64(f), uint64(t), nil
}

// MemAlloc allocates n bytes of device memory.
func MemAlloc(n uintptr) (DevicePtr, error) {
	var p C.CUdeviceptr
	if err := result(C.cuMemAlloc(&p, C.size_t(n)), "cuMemAlloc"); err != nil {
		return 0, err
	}
	return DevicePtr(p), nil
}

// MemFree releases device memory.
func MemFree(p DevicePtr) error {
	return result(C.cuMemFree(C.CUdeviceptr(p)), "cuMemFree")
}

// MemcpyHtoD copies n bytes from host memory to the device.
func MemcpyHtoD(dst DevicePtr, src unsafe.Pointer, n uintptr) error {
	return result(C.cuMemcpyHtoD(C.CUdeviceptr(dst), src, C.size_t(n)), "cuMemcpyHtoD")
}

// MemcpyDtoH copies n bytes from the device to host memory.
func MemcpyDtoH(dst unsafe.Pointer, src DevicePtr, n uintptr) error {
	return result(C.cuMemcpyDtoH(dst, C.CUdeviceptr(src), C.size_t(n)), "cuMemcpyDtoH")
}

// Launch runs the kernel on the default stream. params holds one
// pointer per kernel argument, in declaration order.
func (f *Function) Launch(gridX, gridY, gridZ, blockX, blockY, blockZ, sharedMemBytes uint32, params []unsafe.Pointer) error {
	var kp *unsafe.Pointer
	if len(params) > 0 {
		kp = &params[0]
	}
	return result(C.cuLaunchKernel(f.fn,
		C.uint(gridX), C.uint(gridY), C.uint(gridZ),
		C.uint(blockX), C.uint(blockY), C.uint(blockZ),
		C.uint(sharedMemBytes), nil, kp, nil), "cuLaunchKernel")
}
