// Package cache locates compiled kernel artifacts and their sidecar
// metadata in the Triton compiler cache. The cache layout is owned by
// the compiler: each compiled kernel instance lives in a hash-named
// subdirectory holding <name>.cubin, <name>.ptx and <name>.json files.
package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// EnvCacheDir is the environment variable Triton uses to relocate its
// kernel cache.
const EnvCacheDir = "TRITON_CACHE_DIR"

// groupPrefix marks group-manifest metadata files written by newer
// Triton versions; they are not per-kernel sidecars.
const groupPrefix = "__grp__"

// DefaultDir resolves the cache directory the way the compiler does:
// TRITON_CACHE_DIR if set, otherwise ~/.triton/cache.
func DefaultDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".triton", "cache")
	}
	return filepath.Join(home, ".triton", "cache")
}

// Cache reads a Triton kernel cache directory.
type Cache struct {
	dir string
	log *zap.Logger
}

// New returns a Cache rooted at dir. An empty dir falls back to
// DefaultDir resolution.
func New(dir string, log *zap.Logger) *Cache {
	if dir == "" {
		dir = DefaultDir()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{dir: dir, log: log.Named("cache")}
}

// Dir returns the resolved cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// FindExt returns every path under the cache matching **/<name>.<ext>,
// sorted lexically. A missing cache directory is an error; a present
// directory with no matches returns an empty slice.
func (c *Cache) FindExt(name, ext string) ([]string, error) {
	if _, err := os.Stat(c.dir); err != nil {
		return nil, fmt.Errorf("kernel cache directory %s: %w", c.dir, err)
	}

	want := name + "." + ext
	var found []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == want {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan kernel cache: %w", err)
	}
	sort.Strings(found)

	c.log.Debug("cache lookup",
		zap.String("kernel", name),
		zap.String("ext", ext),
		zap.Int("matches", len(found)))
	return found, nil
}

// List returns the distinct kernel names that have a metadata sidecar
// in the cache, sorted.
func (c *Cache) List() ([]string, error) {
	if _, err := os.Stat(c.dir); err != nil {
		return nil, fmt.Errorf("kernel cache directory %s: %w", c.dir, err)
	}

	seen := make(map[string]struct{})
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()
		if d.IsDir() || !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, groupPrefix) {
			return nil
		}
		seen[strings.TrimSuffix(base, ".json")] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan kernel cache: %w", err)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Kernel returns a handle for looking up one kernel's artifacts by its
// user-facing name.
func (c *Cache) Kernel(name string) *Kernel {
	return &Kernel{name: name, cache: c}
}

// Kernel is a read-only handle onto one kernel's cache entries.
type Kernel struct {
	name  string
	cache *Cache
}

func (k *Kernel) Name() string {
	return k.name
}

// Cubin returns the paths of the kernel's compiled device binaries.
func (k *Kernel) Cubin() ([]string, error) {
	return k.cache.FindExt(k.name, "cubin")
}

// PTX returns the paths of the kernel's PTX assembly artifacts.
func (k *Kernel) PTX() ([]string, error) {
	return k.cache.FindExt(k.name, "ptx")
}

// MetadataPath returns the path of the kernel's metadata sidecar.
// Exactly one sidecar is expected per kernel name.
func (k *Kernel) MetadataPath() (string, error) {
	paths, err := k.cache.FindExt(k.name, "json")
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("no metadata found for kernel %q under %s", k.name, k.cache.dir)
	case 1:
		return paths[0], nil
	default:
		return "", fmt.Errorf("ambiguous metadata for kernel %q: %d sidecar files", k.name, len(paths))
	}
}

// Metadata locates and decodes the kernel's metadata sidecar.
func (k *Kernel) Metadata() (*Metadata, error) {
	path, err := k.MetadataPath()
	if err != nil {
		return nil, err
	}
	return ReadMetadata(path)
}
