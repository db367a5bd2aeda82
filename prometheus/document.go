package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/docframe"
)

// Ensure MetricsDocumentService implements docframe.DocumentService.
var _ docframe.DocumentService = (*MetricsDocumentService)(nil)

// MetricsDocumentService wraps a DocumentService with operation metrics.
type MetricsDocumentService struct {
	next    docframe.DocumentService
	metrics *Metrics
}

// NewMetricsDocumentService creates a new MetricsDocumentService.
func NewMetricsDocumentService(next docframe.DocumentService, metrics *Metrics) *MetricsDocumentService {
	return &MetricsDocumentService{next: next, metrics: metrics}
}

func (s *MetricsDocumentService) ListFiles(ctx context.Context, key string, includeDescription bool) (_ *docframe.FileList, err error) {
	defer func(begin time.Time) { s.metrics.observe("list_files", begin, err) }(time.Now())
	return s.next.ListFiles(ctx, key, includeDescription)
}

func (s *MetricsDocumentService) ListSections(ctx context.Context, req docframe.SectionsRequest) (_ *docframe.Structure, err error) {
	defer func(begin time.Time) { s.metrics.observe("list_sections", begin, err) }(time.Now())
	return s.next.ListSections(ctx, req)
}

func (s *MetricsDocumentService) ListAll(ctx context.Context, key string) (_ []string, err error) {
	defer func(begin time.Time) { s.metrics.observe("list_all", begin, err) }(time.Now())
	return s.next.ListAll(ctx, key)
}

func (s *MetricsDocumentService) LoadDocument(ctx context.Context, key, path string) (_ *docframe.Content, err error) {
	defer func(begin time.Time) { s.metrics.observe("load_document", begin, err) }(time.Now())
	return s.next.LoadDocument(ctx, key, path)
}

func (s *MetricsDocumentService) OpenAsset(ctx context.Context, key, path string) (_ *docframe.Asset, err error) {
	defer func(begin time.Time) { s.metrics.observe("open_asset", begin, err) }(time.Now())
	return s.next.OpenAsset(ctx, key, path)
}

// Ensure MetricsIconService implements docframe.IconService.
var _ docframe.IconService = (*MetricsIconService)(nil)

// MetricsIconService wraps an IconService and counts regenerations.
type MetricsIconService struct {
	next    docframe.IconService
	metrics *Metrics
}

// NewMetricsIconService creates a new MetricsIconService.
func NewMetricsIconService(next docframe.IconService, metrics *Metrics) *MetricsIconService {
	return &MetricsIconService{next: next, metrics: metrics}
}

func (s *MetricsIconService) EnsureIcons(ctx context.Context, dir string, cfg docframe.PWAConfig, force bool) (generated bool, err error) {
	defer func(begin time.Time) {
		s.metrics.observe("ensure_icons", begin, err)
		if generated {
			s.metrics.iconsGenerated.Inc()
		}
	}(time.Now())
	return s.next.EnsureIcons(ctx, dir, cfg, force)
}
