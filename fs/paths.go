// Package fs implements documentation structuring and icon caching on top of
// the local file system.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/docframe"
)

// Well-known root keys.
const (
	DocsKey          = "DOCS_DIR"
	HelpKey          = "HELP_DIR"
	FrameworkDocsKey = "FRAMEWORK_DOCS_DIR"
	StaticKey        = "STATIC_DIR"
	FrameStaticKey   = "FRAME_STATIC_DIR"
)

// CustomKey returns the root key under which a custom root is registered.
func CustomKey(name string) string {
	return "CUSTOM:" + name
}

// Paths maps root keys to directories. It is built once at startup and only
// read afterwards; Register is not safe for concurrent use.
type Paths struct {
	baseDir string
	dirs    map[string]string
}

// NewPaths creates a registry anchored at baseDir. Relative directories passed
// to Register resolve against it. Returns EINVALID if baseDir is not an
// existing directory.
func NewPaths(baseDir string) (*Paths, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	if !isDir(abs) {
		return nil, docframe.Errorf(docframe.EINVALID, "base directory %q is not a directory", baseDir)
	}
	return &Paths{
		baseDir: abs,
		dirs:    make(map[string]string),
	}, nil
}

// BaseDir returns the absolute base directory.
func (p *Paths) BaseDir() string {
	return p.baseDir
}

// Register associates key with dir. Each key can be registered once.
// The directory does not have to exist yet.
func (p *Paths) Register(key, dir string) error {
	if key == "" {
		return docframe.Errorf(docframe.EINVALID, "path key required")
	}
	if dir == "" {
		return docframe.Errorf(docframe.EINVALID, "directory required for %s", key)
	}
	if _, ok := p.dirs[key]; ok {
		return docframe.Errorf(docframe.ECONFLICT, "path %s already registered", key)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.baseDir, dir)
	}
	p.dirs[key] = filepath.Clean(dir)
	return nil
}

// Registered returns the directory registered under key, whether or not it exists.
func (p *Paths) Registered(key string) (string, bool) {
	dir, ok := p.dirs[key]
	return dir, ok
}

// Resolve returns the directory registered under key if it exists.
func (p *Paths) Resolve(key string) (string, bool) {
	dir, ok := p.dirs[key]
	if !ok || !isDir(dir) {
		return "", false
	}
	return dir, true
}

// Keys returns the registered keys in sorted order.
func (p *Paths) Keys() []string {
	keys := make([]string, 0, len(p.dirs))
	for k := range p.dirs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SafeJoin joins a user-supplied relative path onto base.
//
// Any ".." in userPath is rejected before the paths are joined. After joining,
// symbolic links are resolved on both sides and the result must still lie
// within base. Both failures return EFORBIDDEN; a missing target returns
// ENOTFOUND.
func SafeJoin(base, userPath string) (string, error) {
	if strings.Contains(userPath, "..") {
		return "", docframe.Errorf(docframe.EFORBIDDEN, "path traversal not allowed: %s", userPath)
	}

	joined := filepath.Join(base, filepath.FromSlash(userPath))

	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", docframe.Errorf(docframe.ENOTFOUND, "root %s not found", base)
		}
		return "", fmt.Errorf("resolve root: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", docframe.Errorf(docframe.ENOTFOUND, "%s not found", userPath)
	}

	if !IsUnderRoot(realBase, realPath) {
		return "", docframe.Errorf(docframe.EFORBIDDEN, "path escapes root: %s", userPath)
	}

	return joined, nil
}

// IsUnderRoot reports whether path equals base or is nested under it.
// The check is lexical; both paths must be absolute or both relative.
func IsUnderRoot(base, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// contained reports whether path stays under root once symlinks in both are
// resolved. Paths that cannot be resolved are not contained.
func contained(root, path string) bool {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	return IsUnderRoot(realRoot, realPath)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
