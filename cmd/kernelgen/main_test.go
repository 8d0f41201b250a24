package main

import (
	"testing"

	"github.com/gputools/tritonrun/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	_, err := fixtures.MaterializeCache(dir)
	require.NoError(t, err)

	src, err := generate(dir, "kernels")
	require.NoError(t, err)

	out := string(src)
	assert.Contains(t, out, "// Code generated by kernelgen. DO NOT EDIT.")
	assert.Contains(t, out, "package kernels")
	assert.Contains(t, out, `const AddKernel = "add_kernel_0d1d2d3de"`)
}

func TestGenerateEmptyCache(t *testing.T) {
	_, err := generate(t.TempDir(), "kernels")
	assert.ErrorContains(t, err, "no kernels found")
}

func TestExportName(t *testing.T) {
	cases := map[string]string{
		"add_kernel":        "AddKernel",
		"matmul":            "Matmul",
		"fused-attn_kernel": "FusedAttnKernel",
	}
	for in, want := range cases {
		assert.Equal(t, want, exportName(in))
	}
}
