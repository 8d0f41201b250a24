//go:build !cuda

package gpu

// tryCreateCUDABackend returns nil when built without CUDA support
func (m *Manager) tryCreateCUDABackend() Backend {
	return nil
}
