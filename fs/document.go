package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/docframe"
)

// DefaultFrameworkName is the framework section name used when none is given.
const DefaultFrameworkName = "Framework"

// Ensure DocumentService implements docframe.DocumentService at compile time.
var _ docframe.DocumentService = (*DocumentService)(nil)

// DocumentService reads documentation from directories registered in Paths.
// It holds no mutable state and is safe for concurrent use.
type DocumentService struct {
	paths *Paths
}

// NewDocumentService creates a DocumentService backed by paths.
func NewDocumentService(paths *Paths) *DocumentService {
	return &DocumentService{paths: paths}
}

// ListFiles returns the Markdown files directly inside the root registered
// under key. A missing root yields an empty list. Files that resolve outside
// the root are never listed.
func (s *DocumentService) ListFiles(ctx context.Context, key string, includeDescription bool) (*docframe.FileList, error) {
	files := []*docframe.Document{}

	root, ok := s.paths.Resolve(key)
	if !ok {
		return &docframe.FileList{Files: files}, nil
	}

	names, err := listMarkdown(root, root)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		meta := ExtractFile(filepath.Join(root, name))
		doc := &docframe.Document{Path: name, Title: meta.Title}
		if includeDescription {
			doc.Description = meta.Description
		}
		files = append(files, doc)
	}

	// Only the root index.md is promoted in the flat view.
	sort.SliceStable(files, func(i, j int) bool {
		ii, ji := files[i].Path == docframe.IndexFile, files[j].Path == docframe.IndexFile
		if ii != ji {
			return ii
		}
		return files[i].Path < files[j].Path
	})

	return &docframe.FileList{Files: files}, nil
}

// ListSections builds the sectioned structure described by req.
func (s *DocumentService) ListSections(ctx context.Context, req docframe.SectionsRequest) (*docframe.Structure, error) {
	var framework *docframe.Section
	if req.FrameworkKey != "" {
		if root, ok := s.paths.Resolve(req.FrameworkKey); ok {
			sec, err := buildFrameworkSection(root, req.FrameworkName)
			if err != nil {
				return nil, err
			}
			framework = sec
		}
	}

	sections := []*docframe.Section{}

	root, ok := s.paths.Resolve(req.RootKey)
	if !ok {
		if framework != nil {
			sections = append(sections, framework)
		}
		return &docframe.Structure{Sections: sections}, nil
	}

	defs := req.Defs
	if defs == nil {
		if req.DisableDiscovery {
			defs = []docframe.SectionDef{{Name: docframe.OverviewName}}
		} else {
			discovered, err := DiscoverSections(ctx, root, DiscoverOptions{
				IncludeRoot: true,
				Exclude:     req.Exclude,
			})
			if err != nil {
				return nil, fmt.Errorf("discover sections: %w", err)
			}
			defs = discovered
		}
	}

	inserted := false
	for _, def := range defs {
		if def.Path == docframe.LegacyFrameworkMarker {
			continue
		}

		if framework != nil && !inserted && docframe.LateSections[def.Path] {
			sections = append(sections, framework)
			inserted = true
		}

		sec, err := buildSection(root, def)
		if err != nil {
			return nil, err
		}
		if sec != nil {
			sections = append(sections, sec)
		}
	}

	if framework != nil && !inserted {
		sections = append(sections, framework)
	}

	return &docframe.Structure{Sections: sections}, nil
}

// buildSection lists the Markdown files directly inside the directory named by
// def. It returns nil for directories that are missing, rejected, or empty.
func buildSection(root string, def docframe.SectionDef) (*docframe.Section, error) {
	dir := root
	if !def.IsRoot() {
		joined, err := SafeJoin(root, def.Path)
		if err != nil {
			return nil, nil
		}
		dir = joined
	}
	if !isDir(dir) {
		return nil, nil
	}

	names, err := listMarkdown(root, dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	docs := make([]*docframe.Document, 0, len(names))
	for _, name := range names {
		meta := ExtractFile(filepath.Join(dir, name))
		docs = append(docs, &docframe.Document{
			Path:        path.Join(def.Path, name),
			Title:       meta.Title,
			Description: meta.Description,
		})
	}
	docframe.SortDocuments(docs)

	return &docframe.Section{Name: def.Name, Documents: docs}, nil
}

// buildFrameworkSection gathers the framework root files and the files of its
// immediate non-hidden subdirectories into one section.
func buildFrameworkSection(root, name string) (*docframe.Section, error) {
	if name == "" {
		name = DefaultFrameworkName
	}

	var docs []*docframe.Document
	add := func(dir, rel string) error {
		names, err := listMarkdown(root, dir)
		if err != nil {
			return err
		}
		for _, n := range names {
			meta := ExtractFile(filepath.Join(dir, n))
			docs = append(docs, &docframe.Document{
				Path:        path.Join(rel, n),
				Title:       meta.Title,
				Description: meta.Description,
				Framework:   true,
			})
		}
		return nil
	}

	if err := add(root, ""); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read framework directory: %w", err)
	}
	for _, e := range entries {
		sub := e.Name()
		dir := filepath.Join(root, sub)
		if strings.HasPrefix(sub, ".") || !isDir(dir) || !contained(root, dir) {
			continue
		}
		if err := add(dir, sub); err != nil {
			return nil, err
		}
	}

	if len(docs) == 0 {
		return nil, nil
	}
	docframe.SortFrameworkDocuments(docs)

	return &docframe.Section{Name: name, Documents: docs, Framework: true}, nil
}

// ListAll returns every Markdown file under the root, recursively. Symlinks
// resolving outside the root are left out.
func (s *DocumentService) ListAll(ctx context.Context, key string) ([]string, error) {
	files := []string{}

	root, ok := s.paths.Resolve(key)
	if !ok {
		return files, nil
	}

	err := filepath.WalkDir(root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), markdownExt) {
			return nil
		}
		if !isFile(p) || !contained(root, p) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// LoadDocument reads the document at relPath under the root registered as key.
func (s *DocumentService) LoadDocument(ctx context.Context, key, relPath string) (*docframe.Content, error) {
	data, err := s.readFile(key, relPath)
	if err != nil {
		return nil, err
	}
	return &docframe.Content{
		Content:   string(data),
		Path:      relPath,
		Framework: key == FrameworkDocsKey,
	}, nil
}

// OpenAsset reads any file at relPath under the root registered as key.
func (s *DocumentService) OpenAsset(ctx context.Context, key, relPath string) (*docframe.Asset, error) {
	data, err := s.readFile(key, relPath)
	if err != nil {
		return nil, err
	}
	return &docframe.Asset{Path: relPath, Data: data}, nil
}

func (s *DocumentService) readFile(key, relPath string) ([]byte, error) {
	root, ok := s.paths.Resolve(key)
	if !ok {
		return nil, docframe.Errorf(docframe.ENOTFOUND, "root %s not available", key)
	}

	full, err := SafeJoin(root, relPath)
	if err != nil {
		return nil, err
	}
	if !isFile(full) {
		return nil, docframe.Errorf(docframe.ENOTFOUND, "%s not found", relPath)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docframe.Errorf(docframe.ENOTFOUND, "%s not found", relPath)
		}
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	return data, nil
}
