package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docframe"
)

// DefaultMaxDepth is the default directory depth scanned for sections.
// Depth 1 is the immediate subdirectories of the root.
const DefaultMaxDepth = 2

// DiscoverOptions controls section discovery.
type DiscoverOptions struct {
	// IncludeRoot adds an Overview section for Markdown files in the root.
	IncludeRoot bool

	// MaxDepth limits recursion. Zero or less means DefaultMaxDepth.
	MaxDepth int

	// Exclude lists directory names skipped together with their descendants.
	Exclude []string
}

// DiscoverSections proposes an ordered list of sections for the
// documentation tree at root. Every directory that directly contains a
// Markdown file becomes a section; subdirectories are scanned regardless, so
// both "a" and "a/b" may be sections. Hidden directories are skipped.
func DiscoverSections(ctx context.Context, root string, opts DiscoverOptions) ([]docframe.SectionDef, error) {
	overview := docframe.SectionDef{Name: docframe.OverviewName}

	if !isDir(root) {
		if opts.IncludeRoot {
			return []docframe.SectionDef{overview}, nil
		}
		return []docframe.SectionDef{}, nil
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = true
	}

	defs := []docframe.SectionDef{}

	if opts.IncludeRoot {
		has, err := hasMarkdown(root, root)
		if err != nil {
			return nil, err
		}
		if has {
			defs = append(defs, overview)
		}
	}

	var scan func(rel string, depth int) error
	scan = func(rel string, depth int) error {
		if depth > maxDepth {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := filepath.Join(root, filepath.FromSlash(rel))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") || exclude[name] {
				continue
			}

			childDir := filepath.Join(dir, name)
			if !isDir(childDir) || !contained(root, childDir) {
				continue
			}

			childRel := path.Join(rel, name)

			has, err := hasMarkdown(root, childDir)
			if err != nil {
				return err
			}
			if has {
				defs = append(defs, docframe.SectionDef{
					Path: childRel,
					Name: docframe.TitleCase(name),
				})
			}

			if err := scan(childRel, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := scan("", 1); err != nil {
		return nil, err
	}

	docframe.SortSectionDefs(defs)
	return defs, nil
}
