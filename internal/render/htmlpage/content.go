package htmlpage

import (
	"context"
	"fmt"
	"strings"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/res"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element builds an element node; attrs are key/value pairs
func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// withText appends a text child and returns n
func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(textNode(s))
	return n
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

// SectionContent renders the payloads produced by the content readers.
// A block.Section becomes a heading, its paragraphs, its sanitized HTML and
// its image; a string becomes a paragraph; an *html.Node is cloned.
type SectionContent struct {
	policy *bluemonday.Policy
	// Loader, when set, inlines images as data URLs so the page renders
	// without access to the original locations.
	Loader *res.Loader
}

// NewSectionContent creates the default content renderer
func NewSectionContent(loader *res.Loader) *SectionContent {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "dir").Globally()
	policy.AllowDataURIImages()
	return &SectionContent{policy: policy, Loader: loader}
}

// Render implements render.ContentFunc
func (c *SectionContent) Render(b *block.ContentBlock) ([]*html.Node, error) {
	switch v := b.Content.(type) {
	case nil:
		return nil, nil
	case block.Section:
		return c.section(v)
	case *block.Section:
		return c.section(*v)
	case string:
		return c.paragraphs(v), nil
	case *html.Node:
		return []*html.Node{clone(v)}, nil
	case fmt.Stringer:
		return c.paragraphs(v.String()), nil
	default:
		return nil, fmt.Errorf("unsupported content %T in block %q", b.Content, b.ID)
	}
}

func (c *SectionContent) paragraphs(s string) []*html.Node {
	var out []*html.Node
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, withText(element("p"), p))
		}
	}
	return out
}

func (c *SectionContent) section(s block.Section) ([]*html.Node, error) {
	var out []*html.Node

	if s.Title != "" {
		out = append(out, withText(element("h2", "class", "section-title"), s.Title))
	}
	for _, p := range s.Paragraphs {
		out = append(out, c.paragraphs(p)...)
	}

	if s.HTML != "" {
		nodes, err := c.Sanitize(s.HTML)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}

	if s.Image != nil {
		fig, err := c.figure(s.Image)
		if err != nil {
			return nil, err
		}
		out = append(out, fig)
	}

	return out, nil
}

// Sanitize strips scripts and unsafe attributes from an HTML fragment and parses it
func (c *SectionContent) Sanitize(fragment string) ([]*html.Node, error) {
	clean := c.policy.Sanitize(fragment)
	ctx := element("div")
	nodes, err := html.ParseFragment(strings.NewReader(clean), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sanitized HTML: %w", err)
	}
	return nodes, nil
}

func (c *SectionContent) figure(img *block.Image) (*html.Node, error) {
	src := img.Src
	if c.Loader != nil && src != "" && !strings.HasPrefix(src, "data:") {
		r, err := c.Loader.LoadImage(context.Background(), src)
		if err != nil {
			return nil, fmt.Errorf("failed to inline image %q: %w", src, err)
		}
		src = r.DataURL()
	}

	imgEl := element("img", "src", src, "alt", img.Alt)
	if img.Width > 0 {
		imgEl.Attr = append(imgEl.Attr, html.Attribute{Key: "style", Val: fmt.Sprintf("width:%.2fpt;max-width:100%%", img.Width)})
	}

	fig := element("figure")
	fig.AppendChild(imgEl)
	if img.Alt != "" {
		fig.AppendChild(withText(element("figcaption"), img.Alt))
	}
	return fig, nil
}

// clone deep-copies n so the caller's tree is never re-parented
func clone(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(clone(c))
	}
	return out
}
