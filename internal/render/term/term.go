// Package term previews assembled pages in a terminal as bordered boxes.
package term

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/parser/html"
	"github.com/gompdf/gompage/internal/render"
)

var (
	sheetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)
	overflowBorder = lipgloss.Color("160")
	bandStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// Renderer draws one box per page, stacked with a blank line between pages
type Renderer struct {
	// Columns is the inner width of a page box in cells
	Columns int
	// LineHeight is how many points one terminal row stands for
	LineHeight float64
}

// NewRenderer creates a terminal renderer
func NewRenderer() *Renderer {
	return &Renderer{Columns: 72, LineHeight: 16}
}

// Render writes the preview to w
func (r *Renderer) Render(w io.Writer, in *render.Input) error {
	if err := in.Validate(); err != nil {
		return err
	}

	rows := int(math.Max(1, math.Round(in.Result.Geometry.ContentHeight/r.LineHeight)))

	sheets := make([]string, 0, len(in.Result.Pages))
	for _, page := range in.Result.Pages {
		body := r.pageBody(page.Blocks)
		if len(body) > rows {
			body = append(body[:rows-1], markerStyle.Render("… clipped"))
		}
		for len(body) < rows {
			body = append(body, "")
		}

		lines := []string{
			bandStyle.Render(truncate(in.Chrome.Header, r.Columns)),
			bandStyle.Render(strings.Repeat("─", r.Columns)),
		}
		lines = append(lines, body...)
		lines = append(lines,
			bandStyle.Render(strings.Repeat("─", r.Columns)),
			bandStyle.Render(r.footer(in.Chrome, page.Index)),
		)

		style := sheetStyle.Width(r.Columns + 2)
		if page.Overflow {
			style = style.BorderForeground(overflowBorder)
		}
		sheets = append(sheets, style.Render(strings.Join(lines, "\n")))
	}

	_, err := fmt.Fprintln(w, strings.Join(sheets, "\n\n"))
	return err
}

func (r *Renderer) footer(c render.Chrome, index int) string {
	label := c.PageLabel(index)
	caption := truncate(c.Footer, r.Columns-lipgloss.Width(label)-1)
	gap := r.Columns - lipgloss.Width(caption) - lipgloss.Width(label)
	if gap < 1 {
		gap = 1
	}
	return caption + strings.Repeat(" ", gap) + label
}

func (r *Renderer) pageBody(blocks []*block.ContentBlock) []string {
	var lines []string
	wrap := lipgloss.NewStyle().Width(r.Columns)

	for i, b := range blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		title, paras := blockText(b)
		if title != "" {
			lines = append(lines, titleStyle.Render(truncate(title, r.Columns)))
		}
		for _, p := range paras {
			lines = append(lines, strings.Split(wrap.Render(p), "\n")...)
		}
	}
	return lines
}

// blockText extracts a title and paragraphs from the payloads the readers produce
func blockText(b *block.ContentBlock) (string, []string) {
	switch v := b.Content.(type) {
	case block.Section:
		return sectionText(v)
	case *block.Section:
		return sectionText(*v)
	case string:
		return "", []string{v}
	case fmt.Stringer:
		return "", []string{v.String()}
	}
	return "", nil
}

func sectionText(s block.Section) (string, []string) {
	paras := append([]string(nil), s.Paragraphs...)
	if s.HTML != "" {
		if nodes, err := html.NewParser().ParseFragment(s.HTML); err == nil {
			for _, n := range nodes {
				if t := n.Text(); t != "" {
					paras = append(paras, t)
				}
			}
		}
	}
	if s.Image != nil {
		alt := s.Image.Alt
		if alt == "" {
			alt = "image"
		}
		paras = append(paras, "["+alt+"]")
	}
	return s.Title, paras
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
