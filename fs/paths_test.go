package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docframe"
	"github.com/fwojciec/docframe/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with content under root, creating parent
// directories as needed. rel uses forward slashes.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNewPaths(t *testing.T) {
	t.Parallel()

	t.Run("accepts an existing directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()

		paths, err := fs.NewPaths(base)

		require.NoError(t, err)
		assert.Equal(t, base, paths.BaseDir())
	})

	t.Run("rejects a missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewPaths(filepath.Join(t.TempDir(), "missing"))

		assert.Equal(t, docframe.EINVALID, docframe.ErrorCode(err))
	})

	t.Run("rejects a regular file", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, t.TempDir(), "file.txt", "x")

		_, err := fs.NewPaths(file)

		assert.Equal(t, docframe.EINVALID, docframe.ErrorCode(err))
	})
}

func TestPaths_Register(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative directories against the base", func(t *testing.T) {
		t.Parallel()

		// Given a base directory with a docs subdirectory
		base := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(base, "docs"), 0o755))
		paths, err := fs.NewPaths(base)
		require.NoError(t, err)

		// When docs is registered by relative path
		require.NoError(t, paths.Register(fs.DocsKey, "docs"))

		// Then it resolves to the absolute directory
		dir, ok := paths.Resolve(fs.DocsKey)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "docs"), dir)
	})

	t.Run("second registration of a key conflicts", func(t *testing.T) {
		t.Parallel()

		paths, err := fs.NewPaths(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, paths.Register(fs.HelpKey, "help"))

		err = paths.Register(fs.HelpKey, "other")

		assert.Equal(t, docframe.ECONFLICT, docframe.ErrorCode(err))
		dir, _ := paths.Registered(fs.HelpKey)
		assert.Equal(t, "help", filepath.Base(dir))
	})

	t.Run("empty key is invalid", func(t *testing.T) {
		t.Parallel()

		paths, err := fs.NewPaths(t.TempDir())
		require.NoError(t, err)

		err = paths.Register("", "docs")

		assert.Equal(t, docframe.EINVALID, docframe.ErrorCode(err))
	})

	t.Run("missing directory is registered but does not resolve", func(t *testing.T) {
		t.Parallel()

		paths, err := fs.NewPaths(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, paths.Register(fs.CustomKey("notes"), "notes"))

		_, registered := paths.Registered(fs.CustomKey("notes"))
		_, resolved := paths.Resolve(fs.CustomKey("notes"))

		assert.True(t, registered)
		assert.False(t, resolved)
	})

	t.Run("unknown key does not resolve", func(t *testing.T) {
		t.Parallel()

		paths, err := fs.NewPaths(t.TempDir())
		require.NoError(t, err)

		_, ok := paths.Resolve(fs.DocsKey)

		assert.False(t, ok)
	})
}

func TestPaths_Keys(t *testing.T) {
	t.Parallel()

	paths, err := fs.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.Register(fs.HelpKey, "help"))
	require.NoError(t, paths.Register(fs.DocsKey, "docs"))

	assert.Equal(t, []string{fs.DocsKey, fs.HelpKey}, paths.Keys())
}

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	t.Run("joins a nested path", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		want := writeFile(t, root, "guide/intro.md", "# Intro")

		got, err := fs.SafeJoin(root, "guide/intro.md")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejects parent references even when the target exists", func(t *testing.T) {
		t.Parallel()

		// Given a file outside the root that a traversal would reach
		parent := t.TempDir()
		writeFile(t, parent, "secret.md", "secret")
		root := filepath.Join(parent, "docs")
		require.NoError(t, os.Mkdir(root, 0o755))

		// When the traversal is attempted
		_, err := fs.SafeJoin(root, "../secret.md")

		// Then it is rejected as a security violation
		assert.Equal(t, docframe.EFORBIDDEN, docframe.ErrorCode(err))
	})

	t.Run("rejects symlinks that escape the root", func(t *testing.T) {
		t.Parallel()

		outside := t.TempDir()
		writeFile(t, outside, "secret.md", "secret")
		root := t.TempDir()
		require.NoError(t, os.Symlink(filepath.Join(outside, "secret.md"), filepath.Join(root, "link.md")))

		_, err := fs.SafeJoin(root, "link.md")

		assert.Equal(t, docframe.EFORBIDDEN, docframe.ErrorCode(err))
	})

	t.Run("allows symlinks within the root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, root, "real.md", "real")
		require.NoError(t, os.Symlink(filepath.Join(root, "real.md"), filepath.Join(root, "alias.md")))

		got, err := fs.SafeJoin(root, "alias.md")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "alias.md"), got)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.SafeJoin(t.TempDir(), "missing.md")

		assert.Equal(t, docframe.ENOTFOUND, docframe.ErrorCode(err))
	})
}

func TestIsUnderRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		path string
		want bool
	}{
		{"same directory", "/srv/docs", "/srv/docs", true},
		{"nested file", "/srv/docs", "/srv/docs/a/b.md", true},
		{"sibling with common prefix", "/srv/docs", "/srv/docs-old/a.md", false},
		{"parent", "/srv/docs", "/srv", false},
		{"unclean nested path", "/srv/docs", "/srv/docs/a/../b.md", true},
		{"unclean escaping path", "/srv/docs", "/srv/docs/../etc", false},
		{"dotted file name", "/srv/docs", "/srv/docs/..hidden", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.IsUnderRoot(tt.base, tt.path))
		})
	}
}
