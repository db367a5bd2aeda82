package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docframe"
	"github.com/natefinch/atomic"
)

// Ensure IconCache implements docframe.IconService at compile time.
var _ docframe.IconService = (*IconCache)(nil)

// IconCache writes generated icons to a directory and skips regeneration
// while the icons on disk carry the hash of the current configuration.
type IconCache struct {
	renderer docframe.IconRenderer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIconCache creates an IconCache that renders icons with renderer.
func NewIconCache(renderer docframe.IconRenderer) *IconCache {
	return &IconCache{
		renderer: renderer,
		locks:    make(map[string]*sync.Mutex),
	}
}

// IconPath returns the path of the icon of the given size inside dir.
func IconPath(dir string, size int) string {
	return filepath.Join(dir, fmt.Sprintf("icon-%d.svg", size))
}

// IconHash returns the 16 hex character hash identifying the appearance
// described by cfg. Keys are serialized in sorted order so equal
// configurations always hash equally.
func IconHash(cfg docframe.IconConfig) string {
	fields := map[string]any{
		"background":  cfg.Background,
		"line1_color": cfg.Line1Color,
		"line1_size":  cfg.Line1Size,
		"line1_text":  cfg.Line1Text,
		"line2_color": cfg.Line2Color,
		"line2_size":  cfg.Line2Size,
		"line2_text":  cfg.Line2Text,
	}
	// encoding/json sorts map keys.
	data, _ := json.Marshal(fields)
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// EnsureIcons brings the icons in dir up to date with cfg.
func (c *IconCache) EnsureIcons(ctx context.Context, dir string, cfg docframe.PWAConfig, force bool) (bool, error) {
	if !cfg.IconsEnabled() {
		return false, nil
	}

	lock := c.lockFor(dir)
	lock.Lock()
	defer lock.Unlock()

	iconCfg := cfg.IconConfig()
	hash := IconHash(iconCfg)

	if !force && c.current(dir, hash) {
		return false, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, docframe.Errorf(docframe.EINTERNAL, "create icon directory: %v", err)
	}

	for _, size := range docframe.IconSizes {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		var buf bytes.Buffer
		if err := c.renderer.Render(&buf, size, iconCfg, hash); err != nil {
			return false, fmt.Errorf("render icon %d: %w", size, err)
		}

		p := IconPath(dir, size)
		if err := atomic.WriteFile(p, &buf); err != nil {
			return false, docframe.Errorf(docframe.EINTERNAL, "write icon %s: %v", p, err)
		}
		if err := os.Chmod(p, 0o644); err != nil {
			return false, docframe.Errorf(docframe.EINTERNAL, "set icon permissions: %v", err)
		}
	}

	return true, nil
}

// current reports whether every icon in dir exists and carries hash.
func (c *IconCache) current(dir, hash string) bool {
	for _, size := range docframe.IconSizes {
		data, err := os.ReadFile(IconPath(dir, size))
		if err != nil {
			return false
		}
		got, ok := docframe.ParseIconHash(data)
		if !ok || got != hash {
			return false
		}
	}
	return true
}

func (c *IconCache) lockFor(dir string) *sync.Mutex {
	key := filepath.Clean(dir)

	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}
