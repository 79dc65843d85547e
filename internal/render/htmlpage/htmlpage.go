// Package htmlpage renders assembled pages as a standalone HTML document,
// either as on-screen sheets or as a print document for a browser print engine.
package htmlpage

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/res"
	"github.com/gompdf/gompage/internal/text"
	"golang.org/x/net/html"
)

// Renderer handles rendering to HTML
type Renderer struct {
	// Content turns block payloads into nodes; defaults to SectionContent
	Content render.ContentFunc
	// PrintButton adds a "Print / Save as PDF" action to previews
	PrintButton bool
	// PrintAction is the URL the print action posts to; empty uses window.print()
	PrintAction string
	// Gap is the vertical space between preview sheets in points
	Gap float64
	// Debug enables verbose logging
	Debug  bool
	Logger *log.Logger
}

// NewRenderer creates a new HTML renderer
func NewRenderer(loader *res.Loader) *Renderer {
	return &Renderer{
		Content:     NewSectionContent(loader).Render,
		PrintButton: true,
		Gap:         18,
		Logger:      log.Default(),
	}
}

// RenderString renders to a string
func (r *Renderer) RenderString(in *render.Input, mode render.Mode) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, in, mode); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes a complete HTML document for the input in the given mode
func (r *Renderer) Render(w io.Writer, in *render.Input, mode render.Mode) error {
	if err := in.Validate(); err != nil {
		return err
	}

	frame := render.FrameFor(in.Result.Geometry)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element("html", "lang", "en")
	doc.AppendChild(root)

	head := element("head")
	head.AppendChild(element("meta", "charset", "utf-8"))
	title := in.Title
	if title == "" {
		title = in.Chrome.Header
	}
	head.AppendChild(withText(element("title"), title))
	head.AppendChild(withText(element("style"), stylesheet(frame, mode, r.Gap)))
	root.AppendChild(head)

	body := element("body", "class", "gompage gompage-"+mode.String())
	root.AppendChild(body)

	var err error
	switch mode {
	case render.Print:
		err = r.renderPrint(body, in)
	default:
		err = r.renderPreview(body, in)
	}
	if err != nil {
		return err
	}

	if r.Debug {
		r.Logger.Printf("Rendered %d pages as HTML %s", in.Result.PageCount(), mode)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

func (r *Renderer) renderPreview(body *html.Node, in *render.Input) error {
	if r.PrintButton {
		body.AppendChild(r.toolbar())
	}

	pages := element("div", "class", "pages")
	body.AppendChild(pages)

	for _, page := range in.Result.Pages {
		class := "sheet"
		if page.Overflow {
			class += " sheet-overflow"
		}
		sheet := element("div", "class", class, "data-page", fmt.Sprint(page.Index))

		sheet.AppendChild(r.header(in.Chrome))

		content := element("main", "class", "content")
		if err := r.appendBlocks(content, page.Blocks); err != nil {
			return err
		}
		sheet.AppendChild(content)

		sheet.AppendChild(r.footer(in.Chrome, in.Chrome.PageLabel(page.Index)))
		pages.AppendChild(sheet)
	}
	return nil
}

func (r *Renderer) renderPrint(body *html.Node, in *render.Input) error {
	// emitted once; position: fixed repeats them on every physical page
	body.AppendChild(r.header(in.Chrome))
	body.AppendChild(r.footer(in.Chrome, ""))

	main := element("main", "class", "document")
	body.AppendChild(main)

	for _, page := range in.Result.Pages {
		section := element("section", "class", "page", "data-page", fmt.Sprint(page.Index))
		if err := r.appendBlocks(section, page.Blocks); err != nil {
			return err
		}
		main.AppendChild(section)
	}
	return nil
}

func (r *Renderer) appendBlocks(parent *html.Node, blocks []*block.ContentBlock) error {
	content := r.Content
	if content == nil {
		content = NewSectionContent(nil).Render
	}

	for _, b := range blocks {
		nodes, err := content(b)
		if err != nil {
			return fmt.Errorf("failed to render block %q: %w", b.ID, err)
		}

		dir := direction(nodes).String()
		if s, ok := b.Content.(block.Section); ok && s.Dir != "" {
			dir = s.Dir
		}

		wrapper := element("div",
			"class", "block block-"+b.Kind.String(),
			"data-block-id", b.ID,
			"dir", dir,
		)
		appendAll(wrapper, nodes)
		parent.AppendChild(wrapper)
	}
	return nil
}

func (r *Renderer) header(c render.Chrome) *html.Node {
	return withText(element("header", "class", "running-header"), c.Header)
}

func (r *Renderer) footer(c render.Chrome, label string) *html.Node {
	footer := element("footer", "class", "running-footer")
	footer.AppendChild(withText(element("span", "class", "caption"), c.Footer))
	if label != "" {
		footer.AppendChild(withText(element("span", "class", "page-number"), label))
	}
	return footer
}

func (r *Renderer) toolbar() *html.Node {
	bar := element("div", "class", "toolbar")
	if r.PrintAction != "" {
		form := element("form", "method", "post", "action", r.PrintAction)
		form.AppendChild(withText(element("button", "type", "submit"), "Print / Save as PDF"))
		bar.AppendChild(form)
		return bar
	}
	bar.AppendChild(withText(element("button", "type", "button", "onclick", "window.print()"), "Print / Save as PDF"))
	return bar
}

// direction detects the direction of the rendered text of a block
func direction(nodes []*html.Node) text.Direction {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return text.DetectDirection(b.String())
}
