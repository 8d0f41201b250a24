//go:build cuda

package gpu

// tryCreateCUDABackend attempts to create a CUDA backend when the cuda
// build tag is present
func (m *Manager) tryCreateCUDABackend() Backend {
	return NewCUDABackend(m.logger, m.deviceIndex)
}
