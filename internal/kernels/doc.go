// Package kernels holds build-time generated mangled symbol names for
// the kernels present in the Triton cache. The driver binding needs the
// exact compiler-mangled symbol to resolve a kernel from a loaded
// module; regenerating this package after a compile run keeps those
// symbols fixed at build time instead of guessed at run time.
//
//go:generate go run github.com/gputools/tritonrun/cmd/kernelgen -out kernels_gen.go
package kernels
