// Package cuda is a thin cgo binding over the CUDA driver API, covering
// the entry points needed to load a precompiled kernel module and launch
// a function from it: context setup, module load, memory copies and
// cuLaunchKernel. It is only compiled with the "cuda" build tag; without
// it the package is empty and the gpu layer falls back to its CPU
// backend.
package cuda
