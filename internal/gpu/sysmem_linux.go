//go:build linux

package gpu

import "golang.org/x/sys/unix"

// getTotalSystemMemory returns total system memory in bytes
func getTotalSystemMemory() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return int64(info.Totalram) * int64(info.Unit)
}

// getAvailableSystemMemory returns free system memory in bytes
func getAvailableSystemMemory() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return int64(info.Freeram) * int64(info.Unit)
}
