package style

import (
	"strings"

	"github.com/gompdf/gompage/internal/parser/css"
	"github.com/gompdf/gompage/internal/parser/html"
	xhtml "golang.org/x/net/html"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

// StyleProperty represents a computed style property
type StyleProperty struct {
	Name        string
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
}

// Source represents the source of a style property
type Source int

const (
	SourceUserAgent Source = iota
	SourceAuthor
	SourceInline
)

// ComputedStyle represents the computed style for an element
type ComputedStyle map[string]StyleProperty

// Get returns the lower-cased value of a property, or "" when unset
func (s ComputedStyle) Get(name string) string {
	return strings.ToLower(strings.TrimSpace(s[name].Value))
}

// StyleEngine handles the CSS cascade and style computation
type StyleEngine struct {
	userAgentStyles *css.Stylesheet
	authorStyles    []*css.Stylesheet
}

// NewStyleEngine creates a new style engine
func NewStyleEngine() *StyleEngine {
	return &StyleEngine{
		userAgentStyles: defaultUserAgentStyles(),
	}
}

// AddStylesheet adds an author stylesheet to the style engine
func (e *StyleEngine) AddStylesheet(stylesheet *css.Stylesheet) {
	e.authorStyles = append(e.authorStyles, stylesheet)
}

// PageDescriptors merges the @page rules of the user agent and author stylesheets
func (e *StyleEngine) PageDescriptors() map[string]string {
	out := e.userAgentStyles.Page()
	for _, sheet := range e.authorStyles {
		for k, v := range sheet.Page() {
			out[k] = v
		}
	}
	return out
}

// ComputeStyles resolves the cascade for every element of doc
func (e *StyleEngine) ComputeStyles(doc *html.Document) map[*html.Node]ComputedStyle {
	styles := make(map[*html.Node]ComputedStyle)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == xhtml.ElementNode {
			styles[n] = e.ComputeStyle(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if doc != nil && doc.Root != nil {
		walk(doc.Root)
	}
	return styles
}

// ComputeStyle resolves the cascade for one element: user agent rules,
// author rules in stylesheet order, then the style attribute
func (e *StyleEngine) ComputeStyle(node *html.Node) ComputedStyle {
	style := make(ComputedStyle)

	style.applySheet(node, e.userAgentStyles, SourceUserAgent)
	for _, sheet := range e.authorStyles {
		style.applySheet(node, sheet, SourceAuthor)
	}
	if inline, ok := node.GetAttr("style"); ok {
		style.apply(css.ParseDeclarations(inline), Specificity{ID: 1}, SourceInline)
	}

	return style
}

func (s ComputedStyle) applySheet(node *html.Node, sheet *css.Stylesheet, source Source) {
	if sheet == nil {
		return
	}
	for _, rule := range sheet.Rules {
		for _, sel := range rule.Selectors {
			if matches(node, sel) {
				s.apply(rule.Declarations, specificityOf(sel), source)
			}
		}
	}
}

// apply lets a declaration replace the current value when it is !important
// and the current one is not, comes from a later origin, or has equal or
// higher specificity within the same origin.
func (s ComputedStyle) apply(declarations []*css.Declaration, spec Specificity, source Source) {
	for _, decl := range declarations {
		if cur, ok := s[decl.Property]; ok {
			switch {
			case decl.Important != cur.Important:
				if !decl.Important {
					continue
				}
			case source != cur.Source:
				if source < cur.Source {
					continue
				}
			case spec.Less(cur.Specificity):
				continue
			}
		}
		s[decl.Property] = StyleProperty{
			Name:        decl.Property,
			Value:       decl.Value,
			Important:   decl.Important,
			Source:      source,
			Specificity: spec,
		}
	}
}

// compound is one step of a selector such as section#intro.card
type compound struct {
	tag     string
	id      string
	classes []string
}

// parseCompound returns false for steps using attributes, pseudo-classes
// or combinators other than descendant, which never match
func parseCompound(step string) (compound, bool) {
	if step == "" || strings.ContainsAny(step, ":[>+~") {
		return compound{}, false
	}

	var c compound
	kind := byte(0)
	start := 0
	flush := func(end int) {
		name := step[start:end]
		switch kind {
		case 0:
			c.tag = name
		case '#':
			c.id = name
		case '.':
			c.classes = append(c.classes, name)
		}
	}
	for i := 0; i < len(step); i++ {
		if step[i] == '#' || step[i] == '.' {
			flush(i)
			kind = step[i]
			start = i + 1
		}
	}
	flush(len(step))
	return c, true
}

func (c compound) matches(n *html.Node) bool {
	if n == nil || n.Type != xhtml.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, n.Data) {
		return false
	}
	if c.id != "" {
		if id, _ := n.GetAttr("id"); id != c.id {
			return false
		}
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	return true
}

// matches checks descendant selectors such as "main section.card"
func matches(node *html.Node, selector string) bool {
	steps := strings.Fields(selector)
	if len(steps) == 0 || node == nil {
		return false
	}

	last, ok := parseCompound(steps[len(steps)-1])
	if !ok || !last.matches(node) {
		return false
	}

	anc := node.Parent
	for i := len(steps) - 2; i >= 0; i-- {
		want, ok := parseCompound(steps[i])
		if !ok {
			return false
		}
		for anc != nil && !want.matches(anc) {
			anc = anc.Parent
		}
		if anc == nil {
			return false
		}
		anc = anc.Parent
	}
	return true
}

// specificityOf counts ids, classes and element names of a selector
func specificityOf(selector string) Specificity {
	var sp Specificity
	for _, step := range strings.Fields(selector) {
		sp.ID += strings.Count(step, "#")
		sp.Class += strings.Count(step, ".") + strings.Count(step, "[") + strings.Count(step, ":")
		if step[0] != '.' && step[0] != '#' && step[0] != '*' {
			sp.Element++
		}
	}
	return sp
}

// Less reports whether a has lower specificity than b
func (a Specificity) Less(b Specificity) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	return a.Element < b.Element
}

// defaultUserAgentStyles carries the print defaults of the paginator: A4 with
// the reference margins, and the utility classes content uses to request breaks.
func defaultUserAgentStyles() *css.Stylesheet {
	stylesheet, _ := css.NewParser().ParseString(`
		@page { size: A4; margin: 15mm 20mm 20mm 20mm; }
		.page-break { break-after: page; }
		.break-before-page { break-before: page; }
		.break-after-page { break-after: page; }
		.break-inside-avoid { break-inside: avoid; }
		figure, table, img, pre { break-inside: avoid; }
		.running-header { display: block; }
		.running-footer { display: block; }
	`)
	return stylesheet
}
