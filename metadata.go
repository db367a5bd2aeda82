package docframe

import (
	"bufio"
	"io"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxLineSize bounds a single Markdown line while scanning for metadata.
const maxLineSize = 1 << 20

// minSentenceIndex is the smallest rune index at which a sentence terminator
// ends a description. It keeps leading abbreviations such as "Dr." from
// producing a truncated description.
const minSentenceIndex = 11

// Metadata holds the title and short description of a Markdown document.
type Metadata struct {
	Title       string
	Description string
}

// ExtractMetadata derives a title and description from Markdown read from r.
//
// The title is the text of the first H1 line ("# Title"). The description is
// the first sentence of the prose that follows it. When the content has no
// H1, the title is derived from filename. Read errors end scanning early and
// are otherwise ignored.
func ExtractMetadata(r io.Reader, filename string) Metadata {
	var md Metadata

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	foundTitle := false
	var lines []string

	for scanner.Scan() {
		line := scanner.Text()

		if !foundTitle {
			if strings.HasPrefix(line, "# ") {
				md.Title = strings.TrimSpace(line[2:])
				foundTitle = true
			}
			continue
		}

		stripped := strings.TrimSpace(line)

		if stripped == "" && len(lines) == 0 {
			continue
		}

		// Next heading, code fence or horizontal rule ends the description.
		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "---") {
			break
		}

		// Tables and lists are skipped before prose starts and end it afterwards.
		if strings.HasPrefix(stripped, "|") || strings.HasPrefix(stripped, "-") || strings.HasPrefix(stripped, "*") {
			if len(lines) == 0 {
				continue
			}
			break
		}

		if stripped != "" {
			lines = append(lines, stripped)
		}

		if desc, ok := firstSentence(strings.Join(lines, " ")); ok {
			md.Description = desc
			break
		}
	}

	if md.Title == "" {
		md.Title = TitleFromFilename(filename)
	}

	return md
}

// firstSentence returns the prefix of s ending at the first sentence
// terminator that sits at rune index minSentenceIndex or later and is
// followed by whitespace or the end of s.
func firstSentence(s string) (string, bool) {
	runes := []rune(s)
	for i, r := range runes {
		if i < minSentenceIndex {
			continue
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1]), true
		}
	}
	return "", false
}

// TitleFromFilename turns a Markdown filename into a display title:
// "getting-started.md" becomes "Getting Started".
func TitleFromFilename(filename string) string {
	base := strings.ReplaceAll(path.Base(filepathToSlash(filename)), ".md", "")
	return TitleCase(base)
}

// TitleCase replaces "-" and "_" with spaces and title-cases every word.
func TitleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.Und).String(s)
}

// filepathToSlash normalizes Windows separators so path.Base works on any host.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
