package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/parser/css"
	"github.com/gompdf/gompage/internal/parser/html"
	"github.com/gompdf/gompage/internal/res"
	"github.com/gompdf/gompage/internal/style"
	xhtml "golang.org/x/net/html"
)

// baseFontSize resolves em lengths in inline heights
const baseFontSize = 12.0

// FromHTML reads an HTML document. See FromHTMLContext.
func FromHTML(r io.Reader, loader *res.Loader) (*Document, error) {
	return FromHTMLContext(context.Background(), r, loader)
}

// FromHTMLContext reads an HTML document.
//
// Every child element of <main>, or of <body> when there is no <main>,
// becomes a section. Elements carrying a forced break and no content, such
// as <div class="page-break">, are manual breaks. Computed break-inside:
// avoid keeps a section together and an explicit height is used as is.
// <header class="running-header"> and <footer class="running-footer"> give
// the running captions; @page size and margin set the medium.
// Linked stylesheets are fetched through loader when it is not nil.
func FromHTMLContext(ctx context.Context, r io.Reader, loader *res.Loader) (*Document, error) {
	parsed, err := html.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", ErrInvalidDocument, err)
	}

	engine := style.NewStyleEngine()
	if err := addStylesheets(ctx, engine, parsed.Root, loader); err != nil {
		return nil, err
	}
	styles := engine.ComputeStyles(parsed)

	doc := newDocument()
	if err := doc.applyPage(engine.PageDescriptors()); err != nil {
		return nil, err
	}

	if t := parsed.Root.Find(func(n *html.Node) bool { return n.IsElement("title") }); t != nil {
		doc.Title = t.Text()
	}
	if h := parsed.Root.Find(func(n *html.Node) bool { return n.HasClass("running-header") }); h != nil {
		doc.Header = h.Text()
	}
	if f := parsed.Root.Find(func(n *html.Node) bool { return n.HasClass("running-footer") }); f != nil {
		doc.Footer = f.Text()
	}

	root := parsed.Root.Find(func(n *html.Node) bool { return n.IsElement("main") })
	if root == nil {
		root = parsed.Root.Find(func(n *html.Node) bool { return n.IsElement("body") })
	}
	if root == nil {
		return doc, nil
	}

	pendingBreak := false
	for _, n := range root.Children() {
		if n.Type == xhtml.TextNode && strings.TrimSpace(n.Data) != "" {
			doc.Sections = append(doc.Sections, block.Section{
				Paragraphs:  []string{strings.Join(strings.Fields(n.Data), " ")},
				BreakBefore: pendingBreak,
			})
			pendingBreak = false
			continue
		}
		if !n.IsElement() || skipElement(n) {
			continue
		}

		computed := styles[n]
		if computed.Hidden() {
			continue
		}
		if isBreakMarker(n, computed) {
			pendingBreak = true
			continue
		}

		sec, err := sectionFromElement(n, computed)
		if err != nil {
			return nil, err
		}
		sec.BreakBefore = sec.BreakBefore || pendingBreak
		pendingBreak = false
		doc.Sections = append(doc.Sections, sec)
	}

	return doc, nil
}

// addStylesheets parses <style> elements and linked stylesheets in document order
func addStylesheets(ctx context.Context, engine *style.StyleEngine, root *html.Node, loader *res.Loader) error {
	parser := css.NewParser()

	nodes := root.FindAll(func(n *html.Node) bool {
		if n.IsElement("style") {
			return true
		}
		rel, _ := n.GetAttr("rel")
		return n.IsElement("link") && strings.EqualFold(rel, "stylesheet")
	})

	for _, n := range nodes {
		var content string
		if n.IsElement("style") {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				content += c.Data
			}
		} else {
			href, ok := n.GetAttr("href")
			if !ok || loader == nil {
				continue
			}
			resource, err := loader.LoadCSS(ctx, href)
			if err != nil {
				return fmt.Errorf("failed to load stylesheet %s: %w", href, err)
			}
			content = resource.String()
		}

		sheet, err := parser.ParseString(content)
		if err != nil {
			return fmt.Errorf("%w: failed to parse stylesheet: %v", ErrInvalidDocument, err)
		}
		engine.AddStylesheet(sheet)
	}
	return nil
}

// applyPage reads the size and margin descriptors of the merged @page rule
func (d *Document) applyPage(desc map[string]string) error {
	if size := desc["size"]; size != "" {
		if err := d.applyPageSize(size, ""); err != nil {
			return err
		}
	}

	if margin := desc["margin"]; margin != "" {
		box, err := css.ParseBox(margin, baseFontSize)
		if err != nil {
			return fmt.Errorf("%w: @page margin: %v", ErrInvalidDocument, err)
		}
		d.Margins = geometry.Margins{Top: box[0], Right: box[1], Bottom: box[2], Left: box[3]}
	}

	sides := map[string]*float64{
		"margin-top":    &d.Margins.Top,
		"margin-right":  &d.Margins.Right,
		"margin-bottom": &d.Margins.Bottom,
		"margin-left":   &d.Margins.Left,
	}
	for name, dst := range sides {
		v := desc[name]
		if v == "" {
			continue
		}
		l, err := css.ParseLength(v, baseFontSize)
		if err != nil {
			return fmt.Errorf("%w: @page %s: %v", ErrInvalidDocument, name, err)
		}
		*dst = l
	}
	return nil
}

func skipElement(n *html.Node) bool {
	if n.IsElement("script", "style", "link", "template", "noscript") {
		return true
	}
	return n.HasClass("running-header") || n.HasClass("running-footer")
}

// isBreakMarker reports an element that only requests a page break
func isBreakMarker(n *html.Node, s style.ComputedStyle) bool {
	if !s.BreakAfter() && !s.BreakBefore() {
		return false
	}
	if strings.TrimSpace(n.Text()) != "" {
		return false
	}
	return n.Find(func(c *html.Node) bool { return c.IsElement("img") }) == nil
}

// sectionFromElement maps one top-level element onto a section
func sectionFromElement(n *html.Node, s style.ComputedStyle) (block.Section, error) {
	sec := block.Section{
		KeepTogether: s.AvoidBreakInside(),
		BreakBefore:  s.BreakBefore(),
		BreakAfter:   s.BreakAfter(),
	}
	sec.ID, _ = n.GetAttr("id")
	sec.Dir, _ = n.GetAttr("dir")
	if h, ok := s.Height(baseFontSize); ok && h > 0 {
		sec.Height = h
	}

	if n.IsElement("img") {
		sec.Image = imageFromElement(n)
		return sec, nil
	}
	if n.IsElement("p") {
		sec.Paragraphs = []string{n.Text()}
		return sec, nil
	}
	if isHeading(n) {
		sec.Title = n.Text()
		return sec, nil
	}

	var rest []*html.Node
	for _, c := range n.Children() {
		switch {
		case c.Type == xhtml.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == xhtml.CommentNode:
		case sec.Title == "" && len(rest) == 0 && isHeading(c):
			sec.Title = c.Text()
		default:
			rest = append(rest, c)
		}
	}

	// A lone image, possibly inside a <figure>, becomes an image section
	if len(rest) == 1 && rest[0].IsElement("img", "figure") {
		if img := rest[0].Find(func(c *html.Node) bool { return c.IsElement("img") }); img != nil {
			sec.Image = imageFromElement(img)
			if caption := rest[0].Find(func(c *html.Node) bool { return c.IsElement("figcaption") }); caption != nil && sec.Image.Alt == "" {
				sec.Image.Alt = caption.Text()
			}
			return sec, nil
		}
	}

	if allParagraphs(rest) {
		for _, p := range rest {
			sec.Paragraphs = append(sec.Paragraphs, p.Text())
		}
		return sec, nil
	}

	var buf bytes.Buffer
	for _, c := range rest {
		if err := xhtml.Render(&buf, c.ToHTML()); err != nil {
			return sec, fmt.Errorf("failed to render section content: %w", err)
		}
	}
	sec.HTML = strings.TrimSpace(buf.String())
	return sec, nil
}

func isHeading(n *html.Node) bool {
	return n.IsElement("h1", "h2", "h3", "h4", "h5", "h6")
}

func allParagraphs(nodes []*html.Node) bool {
	for _, n := range nodes {
		if !n.IsElement("p") {
			return false
		}
	}
	return true
}

// imageFromElement reads src, alt and the pixel width and height attributes
func imageFromElement(n *html.Node) *block.Image {
	img := &block.Image{}
	img.Src, _ = n.GetAttr("src")
	img.Alt, _ = n.GetAttr("alt")
	img.Width = pixelAttr(n, "width")
	img.Height = pixelAttr(n, "height")
	return img
}

func pixelAttr(n *html.Node, name string) float64 {
	v, ok := n.GetAttr(name)
	if !ok {
		return 0
	}
	px, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || px < 0 {
		return 0
	}
	return px * 0.75
}
