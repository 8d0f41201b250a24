// Package fixtures embeds test data: a config template and a captured
// Triton cache entry for the add_kernel demonstration.
package fixtures

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed config/config.yaml.template
var ConfigTemplate []byte

//go:embed cache/add_kernel.json
var AddKernelMetadata []byte

//go:embed cache/add_kernel.ptx
var AddKernelPTX []byte

//go:embed cache/add_kernel.cubin
var AddKernelCubin []byte

// AddKernelDirName mimics the hash-named subdirectory Triton creates
// per compiled kernel instance.
const AddKernelDirName = "5ec9b70b1a1a4c8a9f6e2c3d4b5a6978"

// MaterializeCache writes the embedded add_kernel artifacts into a
// Triton-style cache tree rooted at dir and returns the kernel
// subdirectory path.
func MaterializeCache(dir string) (string, error) {
	sub := filepath.Join(dir, AddKernelDirName)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return "", err
	}
	files := map[string][]byte{
		"add_kernel.json":  AddKernelMetadata,
		"add_kernel.ptx":   AddKernelPTX,
		"add_kernel.cubin": AddKernelCubin,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(sub, name), data, 0o644); err != nil {
			return "", err
		}
	}
	return sub, nil
}
