package docframe

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a Markdown heading with the anchor a rendered page links it by.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractHeadings returns the headings (H1 to H6) of markdown in document
// order. Headings inside code blocks are not headings and empty headings are
// skipped. Repeated anchors get a numeric suffix: "setup", "setup-1".
func ExtractHeadings(markdown string) []Heading {
	source := []byte(markdown)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var headings []Heading
	seen := make(map[string]int)

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		title := strings.TrimSpace(inlineText(h, source))
		if title == "" {
			return gmast.WalkSkipChildren, nil
		}

		anchor := uniqueAnchor(Slug(title), seen)

		headings = append(headings, Heading{Level: h.Level, Title: title, Anchor: anchor})
		return gmast.WalkSkipChildren, nil
	})

	return headings
}

// uniqueAnchor returns base, or base with the lowest numeric suffix not yet
// taken, and records the result in seen. seen maps an anchor to the next
// suffix to try.
func uniqueAnchor(base string, seen map[string]int) string {
	anchor := base
	n, ok := seen[base]
	if ok {
		for {
			anchor = base + "-" + strconv.Itoa(n)
			n++
			if _, taken := seen[anchor]; !taken {
				break
			}
		}
	}
	seen[base] = max(n, 1)
	if anchor != base {
		seen[anchor] = 1
	}
	return anchor
}

// inlineText concatenates the literal text below n.
func inlineText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

// Slug turns a heading title into a URL fragment: lowercase letters and
// digits, with runs of spaces, hyphens and underscores collapsed to one
// hyphen.
func Slug(title string) string {
	var sb strings.Builder
	hyphen := false

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !hyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
