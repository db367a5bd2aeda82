package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docframe"
)

const markdownExt = ".md"

// ExtractFile reads title and description from the Markdown file at path.
// Unreadable files fall back to a title derived from the filename.
func ExtractFile(path string) docframe.Metadata {
	f, err := os.Open(path)
	if err != nil {
		return docframe.Metadata{Title: docframe.TitleFromFilename(path)}
	}
	defer f.Close()

	return docframe.ExtractMetadata(f, path)
}

// listMarkdown returns the names of Markdown files directly inside dir,
// sorted by name. Files whose real location is outside root are left out.
func listMarkdown(root, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, markdownExt) {
			continue
		}
		p := filepath.Join(dir, name)
		if !isFile(p) || !contained(root, p) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// hasMarkdown reports whether dir directly contains a Markdown file that
// stays under root.
func hasMarkdown(root, dir string) (bool, error) {
	names, err := listMarkdown(root, dir)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}
