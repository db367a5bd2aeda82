package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docframe"
)

var _ docframe.IconService = (*IconService)(nil)

// IconService is a mock implementation of docframe.IconService.
type IconService struct {
	EnsureIconsFn func(ctx context.Context, dir string, cfg docframe.PWAConfig, force bool) (bool, error)
}

func (s *IconService) EnsureIcons(ctx context.Context, dir string, cfg docframe.PWAConfig, force bool) (bool, error) {
	return s.EnsureIconsFn(ctx, dir, cfg, force)
}

var _ docframe.IconRenderer = (*IconRenderer)(nil)

// IconRenderer is a mock implementation of docframe.IconRenderer.
type IconRenderer struct {
	RenderFn func(w io.Writer, size int, cfg docframe.IconConfig, hash string) error
}

func (r *IconRenderer) Render(w io.Writer, size int, cfg docframe.IconConfig, hash string) error {
	return r.RenderFn(w, size, cfg, hash)
}
