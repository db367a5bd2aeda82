package mock

import (
	"context"

	"github.com/fwojciec/docframe"
)

var _ docframe.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of docframe.DocumentService.
type DocumentService struct {
	ListFilesFn    func(ctx context.Context, key string, includeDescription bool) (*docframe.FileList, error)
	ListSectionsFn func(ctx context.Context, req docframe.SectionsRequest) (*docframe.Structure, error)
	ListAllFn      func(ctx context.Context, key string) ([]string, error)
	LoadDocumentFn func(ctx context.Context, key, path string) (*docframe.Content, error)
	OpenAssetFn    func(ctx context.Context, key, path string) (*docframe.Asset, error)
}

func (s *DocumentService) ListFiles(ctx context.Context, key string, includeDescription bool) (*docframe.FileList, error) {
	return s.ListFilesFn(ctx, key, includeDescription)
}

func (s *DocumentService) ListSections(ctx context.Context, req docframe.SectionsRequest) (*docframe.Structure, error) {
	return s.ListSectionsFn(ctx, req)
}

func (s *DocumentService) ListAll(ctx context.Context, key string) ([]string, error) {
	return s.ListAllFn(ctx, key)
}

func (s *DocumentService) LoadDocument(ctx context.Context, key, path string) (*docframe.Content, error) {
	return s.LoadDocumentFn(ctx, key, path)
}

func (s *DocumentService) OpenAsset(ctx context.Context, key, path string) (*docframe.Asset, error) {
	return s.OpenAssetFn(ctx, key, path)
}
