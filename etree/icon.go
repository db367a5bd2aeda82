// Package etree renders PWA icons as SVG documents using beevik/etree.
package etree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/docframe"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"
	fontFamily   = "Arial, Helvetica, sans-serif"
)

// Ensure IconRenderer implements docframe.IconRenderer at compile time.
var _ docframe.IconRenderer = (*IconRenderer)(nil)

// IconRenderer draws a square icon with a solid background and up to two
// centered lines of text: a small italic line above a large bold one.
type IconRenderer struct{}

// NewIconRenderer creates a new IconRenderer.
func NewIconRenderer() *IconRenderer {
	return &IconRenderer{}
}

// Render writes the SVG icon of the given size to w. The document starts with
// a comment carrying hash so the icon can be checked against its
// configuration later.
func (r *IconRenderer) Render(w io.Writer, size int, cfg docframe.IconConfig, hash string) error {
	if size <= 0 {
		return docframe.Errorf(docframe.EINVALID, "icon size must be positive, got %d", size)
	}

	doc := etree.NewDocument()
	doc.CreateComment(docframe.IconHashComment(hash))

	dim := strconv.Itoa(size)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", svgNamespace)
	svg.CreateAttr("width", dim)
	svg.CreateAttr("height", dim)
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", size, size))

	rect := svg.CreateElement("rect")
	rect.CreateAttr("width", dim)
	rect.CreateAttr("height", dim)
	rect.CreateAttr("fill", cfg.Background)

	cx := size / 2

	if cfg.Line1Text != "" {
		text := addText(svg, cx, scale(size, docframe.Line1Position), scale(size, cfg.Line1Size), cfg.Line1Color, cfg.Line1Text)
		text.CreateAttr("font-style", "italic")
	}
	if cfg.Line2Text != "" {
		text := addText(svg, cx, scale(size, docframe.Line2Position), scale(size, cfg.Line2Size), cfg.Line2Color, cfg.Line2Text)
		text.CreateAttr("font-weight", "bold")
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func addText(parent *etree.Element, x, y, fontSize int, color, content string) *etree.Element {
	text := parent.CreateElement("text")
	text.CreateAttr("x", strconv.Itoa(x))
	text.CreateAttr("y", strconv.Itoa(y))
	text.CreateAttr("font-family", fontFamily)
	text.CreateAttr("font-size", strconv.Itoa(fontSize))
	text.CreateAttr("fill", color)
	text.CreateAttr("text-anchor", "middle")
	text.SetText(content)
	return text
}

// scale returns frac of size truncated toward zero.
func scale(size int, frac float64) int {
	return int(float64(size) * frac)
}
