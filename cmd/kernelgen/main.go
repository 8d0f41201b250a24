// kernelgen scans a Triton kernel cache and emits a Go source file with
// one exported constant per kernel, mapping the user-facing name to the
// compiler-mangled symbol. Loading a kernel through the driver binding
// needs that exact symbol; generating the constants at build time keeps
// them fixed instead of discovered at run time.
//
// Intended to run via go generate (see internal/kernels).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"strings"

	"github.com/gputools/tritonrun/internal/cache"
)

func main() {
	var (
		cacheDir = flag.String("cache", "", "kernel cache directory (default: $TRITON_CACHE_DIR or ~/.triton/cache)")
		out      = flag.String("out", "kernels_gen.go", "output file path")
		pkg      = flag.String("pkg", "kernels", "package name for the generated file")
	)
	flag.Parse()

	src, err := generate(*cacheDir, *pkg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelgen: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "kernelgen: %v\n", err)
		os.Exit(1)
	}
}

// generate renders the constants file for every kernel that has a
// metadata sidecar in the cache.
func generate(cacheDir, pkg string) ([]byte, error) {
	c := cache.New(cacheDir, nil)
	names, err := c.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no kernels found under %s", c.Dir())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by kernelgen. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	for _, name := range names {
		meta, err := c.Kernel(name).Metadata()
		if err != nil {
			return nil, err
		}
		ident := exportName(name)
		fmt.Fprintf(&buf, "// %s is the mangled symbol for the %q instance.\nconst %s = %q\n\n", ident, name, ident, meta.Name)
	}

	return format.Source(buf.Bytes())
}

// exportName turns a snake_case kernel name into an exported Go
// identifier, e.g. "add_kernel" -> "AddKernel".
func exportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
