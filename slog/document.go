// Package slog provides logging decorators for docframe services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docframe"
)

// Ensure LoggingDocumentService implements docframe.DocumentService.
var _ docframe.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with debug logging.
type LoggingDocumentService struct {
	next   docframe.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next docframe.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// ListFiles delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ListFiles(ctx context.Context, key string, includeDescription bool) (list *docframe.FileList, err error) {
	defer func(begin time.Time) {
		count := 0
		if list != nil {
			count = len(list.Files)
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelDebug), "list files",
			"key", key,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListFiles(ctx, key, includeDescription)
}

// ListSections delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ListSections(ctx context.Context, req docframe.SectionsRequest) (st *docframe.Structure, err error) {
	defer func(begin time.Time) {
		count := 0
		if st != nil {
			count = len(st.Sections)
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelDebug), "list sections",
			"key", req.RootKey,
			"framework", req.FrameworkKey,
			"sections", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListSections(ctx, req)
}

// ListAll delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ListAll(ctx context.Context, key string) (files []string, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err, slog.LevelDebug), "list all",
			"key", key,
			"count", len(files),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListAll(ctx, key)
}

// LoadDocument delegates to the wrapped service and logs the operation.
// Rejected paths are logged at warn level.
func (s *LoggingDocumentService) LoadDocument(ctx context.Context, key, path string) (c *docframe.Content, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if c != nil {
			bytes = len(c.Content)
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelDebug), "load document",
			"key", key,
			"path", path,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadDocument(ctx, key, path)
}

// OpenAsset delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) OpenAsset(ctx context.Context, key, path string) (a *docframe.Asset, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if a != nil {
			bytes = len(a.Data)
		}
		s.logger.Log(ctx, levelFor(err, slog.LevelDebug), "open asset",
			"key", key,
			"path", path,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.OpenAsset(ctx, key, path)
}

// levelFor picks the log level of an operation outcome. Rejected input is a
// warning and a missing resource is debug noise; other failures are errors.
func levelFor(err error, base slog.Level) slog.Level {
	if err == nil {
		return base
	}
	switch docframe.ErrorCode(err) {
	case docframe.EFORBIDDEN:
		return slog.LevelWarn
	case docframe.ENOTFOUND:
		return slog.LevelDebug
	case docframe.EINVALID:
		return slog.LevelWarn
	}
	return slog.LevelError
}
