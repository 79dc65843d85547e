package css

import (
	"io"
	"strings"
)

// Parser represents a CSS parser.
// Rules nested in @media blocks are kept when the media query names Medium or "all".
type Parser struct {
	Medium string
}

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []*Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []*Rule
	// PageRules holds the bodies of @page rules in source order
	PageRules []*Rule
}

// NewParser creates a parser that keeps print media rules
func NewParser() *Parser {
	return &Parser{Medium: "print"}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content string) (*Stylesheet, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses CSS from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	stylesheet := &Stylesheet{}
	p.parseInto(stylesheet, removeComments(string(content)))
	return stylesheet, nil
}

// Page returns the declarations of all @page rules merged in source order
func (s *Stylesheet) Page() map[string]string {
	out := make(map[string]string)
	for _, rule := range s.PageRules {
		for _, decl := range rule.Declarations {
			out[strings.ToLower(decl.Property)] = decl.Value
		}
	}
	return out
}

func (p *Parser) parseInto(stylesheet *Stylesheet, content string) {
	for _, ruleStr := range splitRules(content) {
		prelude, body, ok := splitBlock(ruleStr)
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(prelude, "@page"):
			stylesheet.PageRules = append(stylesheet.PageRules, &Rule{
				Selectors:    []string{prelude},
				Declarations: ParseDeclarations(body),
			})
		case strings.HasPrefix(prelude, "@media"):
			if p.mediaMatches(strings.TrimPrefix(prelude, "@media")) {
				p.parseInto(stylesheet, body)
			}
		case strings.HasPrefix(prelude, "@"):
			// other at-rules carry nothing the paginator uses
		default:
			if selectors := splitList(prelude); len(selectors) > 0 {
				stylesheet.Rules = append(stylesheet.Rules, &Rule{
					Selectors:    selectors,
					Declarations: ParseDeclarations(body),
				})
			}
		}
	}
}

func (p *Parser) mediaMatches(query string) bool {
	query = strings.ToLower(query)
	medium := strings.ToLower(p.Medium)
	if medium == "" {
		medium = "print"
	}
	for _, q := range strings.Split(query, ",") {
		q = strings.TrimSpace(q)
		if strings.HasPrefix(q, "not ") {
			continue
		}
		if strings.Contains(q, medium) || strings.Contains(q, "all") {
			return true
		}
	}
	return false
}

// splitBlock separates "prelude { body }" into its parts
func splitBlock(ruleStr string) (string, string, bool) {
	open := strings.IndexByte(ruleStr, '{')
	if open < 0 || !strings.HasSuffix(ruleStr, "}") {
		return "", "", false
	}
	prelude := strings.TrimSpace(ruleStr[:open])
	body := strings.TrimSpace(ruleStr[open+1 : len(ruleStr)-1])
	return prelude, body, true
}

// splitList splits a comma separated selector list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseDeclarations parses a declaration list such as the value of a style attribute
func ParseDeclarations(list string) []*Declaration {
	var out []*Declaration
	for _, item := range strings.Split(list, ";") {
		property, value, ok := strings.Cut(item, ":")
		property = strings.ToLower(strings.TrimSpace(property))
		if !ok || property == "" {
			continue
		}

		value = strings.TrimSpace(value)
		value, important := strings.CutSuffix(value, "!important")
		out = append(out, &Declaration{
			Property:  property,
			Value:     strings.TrimSpace(value),
			Important: important,
		})
	}
	return out
}

// removeComments strips /* */ comments; an unterminated comment runs to the end
func removeComments(content string) string {
	var b strings.Builder
	for {
		before, rest, found := strings.Cut(content, "/*")
		b.WriteString(before)
		if !found {
			return b.String()
		}
		_, after, closed := strings.Cut(rest, "*/")
		if !closed {
			return b.String()
		}
		content = after
	}
}

// splitRules splits CSS into top-level "prelude { body }" blocks. Nested
// braces stay inside their block; statement at-rules such as @import are
// dropped, as are unbalanced closing braces.
func splitRules(content string) []string {
	var rules []string
	depth, start := 0, 0

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				start = i + 1
				continue
			}
			depth--
			if depth == 0 {
				rules = append(rules, strings.TrimSpace(content[start:i+1]))
				start = i + 1
			}
		case ';':
			if depth == 0 {
				start = i + 1
			}
		}
	}
	return rules
}
