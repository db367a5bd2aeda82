package docframe

import (
	"context"
	"sort"
	"strings"
)

// IndexFile is the conventional landing document of a directory.
const IndexFile = "index.md"

// Document describes a single Markdown file within a documentation root.
// Path is relative to the root and always uses forward slashes.
type Document struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Framework   bool   `json:"framework,omitempty"`
}

// Section is a named, ordered group of documents backed by one directory.
type Section struct {
	Name      string      `json:"name"`
	Documents []*Document `json:"docs"`
	Framework bool        `json:"framework,omitempty"`
}

// Structure is the complete sectioned view of a documentation root.
// Section order is significant and is rendered as-is by clients.
type Structure struct {
	Sections []*Section `json:"sections"`
}

// FileList is the flat view of a documentation root.
type FileList struct {
	Files []*Document `json:"files"`
}

// Content is a loaded Markdown document.
type Content struct {
	Content   string `json:"content"`
	Path      string `json:"path"`
	Framework bool   `json:"framework,omitempty"`
}

// Asset is a non-Markdown file served from a documentation root, such as an
// image referenced by a document.
type Asset struct {
	Path string
	Data []byte
}

// SectionsRequest describes a sectioned structure to build.
type SectionsRequest struct {
	// RootKey names the registered documentation root.
	RootKey string

	// FrameworkKey optionally names a secondary root merged in as one section.
	FrameworkKey string

	// FrameworkName is the display name of the framework section.
	FrameworkName string

	// Defs is the explicit section order. When nil, sections are discovered
	// from the directory layout unless DisableDiscovery is set, in which case
	// only the root-level Overview section is built.
	Defs []SectionDef

	// Exclude lists directory names skipped by discovery.
	Exclude []string

	DisableDiscovery bool
}

// DocumentService answers what documents exist under a registered root and
// what is in them.
type DocumentService interface {
	// ListFiles returns the Markdown files directly inside the root,
	// index.md first, then lexicographically.
	ListFiles(ctx context.Context, key string, includeDescription bool) (*FileList, error)

	// ListSections builds the sectioned structure of a root.
	ListSections(ctx context.Context, req SectionsRequest) (*Structure, error)

	// ListAll returns the relative paths of every Markdown file under the
	// root, recursively, sorted.
	ListAll(ctx context.Context, key string) ([]string, error)

	// LoadDocument reads a document relative to a root.
	// Returns ENOTFOUND if it does not exist and EFORBIDDEN if the path
	// escapes the root.
	LoadDocument(ctx context.Context, key, path string) (*Content, error)

	// OpenAsset reads any file relative to a root with the same safety
	// rules as LoadDocument.
	OpenAsset(ctx context.Context, key, path string) (*Asset, error)
}

// SortDocuments orders documents in place: paths ending in index.md first,
// then lexicographically by path.
func SortDocuments(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		ii, ji := isIndex(docs[i].Path), isIndex(docs[j].Path)
		if ii != ji {
			return ii
		}
		return docs[i].Path < docs[j].Path
	})
}

func isIndex(path string) bool {
	return strings.HasSuffix(path, IndexFile)
}

// frameworkDirOrder is the preferred order of framework subdirectories.
var frameworkDirOrder = map[string]int{
	"spec":   0,
	"go":     1,
	"python": 2,
	"js":     3,
}

// SortFrameworkDocuments orders the documents of a framework section in place:
// the root index.md, the other root files, then subdirectory files grouped by
// directory preference with index.md first within each group.
func SortFrameworkDocuments(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return frameworkLess(docs[i].Path, docs[j].Path)
	})
}

func frameworkLess(a, b string) bool {
	ga, gb := frameworkGroup(a), frameworkGroup(b)
	if ga != gb {
		return ga < gb
	}
	if ga == 2 {
		oa, ob := frameworkDirRank(a), frameworkDirRank(b)
		if oa != ob {
			return oa < ob
		}
		ia, ib := isIndex(a), isIndex(b)
		if ia != ib {
			return ia
		}
	}
	return a < b
}

// frameworkGroup returns 0 for the root index, 1 for other root files and 2
// for files in subdirectories.
func frameworkGroup(path string) int {
	if strings.Contains(path, "/") {
		return 2
	}
	if isIndex(path) {
		return 0
	}
	return 1
}

func frameworkDirRank(path string) int {
	dir, _, _ := strings.Cut(path, "/")
	if rank, ok := frameworkDirOrder[dir]; ok {
		return rank
	}
	return len(frameworkDirOrder)
}
