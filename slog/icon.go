package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docframe"
)

// Ensure LoggingIconService implements docframe.IconService.
var _ docframe.IconService = (*LoggingIconService)(nil)

// LoggingIconService wraps an IconService with logging.
type LoggingIconService struct {
	next   docframe.IconService
	logger *slog.Logger
}

// NewLoggingIconService creates a new LoggingIconService.
func NewLoggingIconService(next docframe.IconService, logger *slog.Logger) *LoggingIconService {
	return &LoggingIconService{next: next, logger: logger}
}

// EnsureIcons delegates to the wrapped service and logs the outcome.
func (s *LoggingIconService) EnsureIcons(ctx context.Context, dir string, cfg docframe.PWAConfig, force bool) (generated bool, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err, slog.LevelInfo), "ensure icons",
			"dir", dir,
			"enabled", cfg.IconsEnabled(),
			"force", force,
			"generated", generated,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnsureIcons(ctx, dir, cfg, force)
}
