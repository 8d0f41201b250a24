//go:build !linux

package gpu

// System memory queries are only wired up on Linux; other platforms
// report zero rather than a fabricated number.
func getTotalSystemMemory() int64 {
	return 0
}

func getAvailableSystemMemory() int64 {
	return 0
}
