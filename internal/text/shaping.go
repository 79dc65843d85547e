package text

import (
	"strings"
	"sync"
	"unicode"

	"codeberg.org/go-pdf/fpdf"
)

// Singleton PDF instance for text measurement using go-pdf/fpdf metrics
var (
	measureOnce sync.Once
	measurePDF  *fpdf.Fpdf
	measureMu   sync.Mutex
)

func initMeasurePDF() {
	measurePDF = fpdf.New("P", "pt", "A4", "")
	measurePDF.SetFont("Helvetica", "", 12)
}

// Font represents a core PDF font used for measurement
type Font struct {
	Family     string
	Style      string
	Size       float64
	LineHeight float64 // multiple of Size
}

// DefaultFont is the body font of rendered sections
var DefaultFont = Font{Family: "Helvetica", Size: 11, LineHeight: 1.45}

// Leading returns the distance between two baselines
func (f Font) Leading() float64 {
	lh := f.LineHeight
	if lh <= 0 {
		lh = 1.2
	}
	return f.Size * lh
}

func (f Font) family() string {
	switch strings.ToLower(strings.TrimSpace(f.Family)) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// TextShaper measures and wraps text with core font metrics
type TextShaper struct{}

// NewTextShaper creates a new text shaper
func NewTextShaper() *TextShaper {
	return &TextShaper{}
}

// StringWidth returns the width of a single line of text in points
func (s *TextShaper) StringWidth(text string, font Font) float64 {
	if text == "" || font.Size <= 0 {
		return 0
	}
	measureOnce.Do(initMeasurePDF)
	measureMu.Lock()
	defer measureMu.Unlock()
	measurePDF.SetFont(font.family(), font.Style, font.Size)
	return measurePDF.GetStringWidth(text)
}

// SplitTextToLines wraps text to maxWidth. Explicit newlines are kept.
// An empty string yields no lines.
func (s *TextShaper) SplitTextToLines(text string, font Font, maxWidth float64) []string {
	text = normalizeSpace(text)
	if text == "" {
		return nil
	}
	if maxWidth <= 0 || font.Size <= 0 {
		return strings.Split(text, "\n")
	}

	measureOnce.Do(initMeasurePDF)
	measureMu.Lock()
	defer measureMu.Unlock()
	measurePDF.SetFont(font.family(), font.Style, font.Size)

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, measurePDF.SplitText(para, maxWidth)...)
	}
	return lines
}

// MeasureText returns the widest line and the total height of text wrapped at maxWidth
func (s *TextShaper) MeasureText(text string, font Font, maxWidth float64) (width, height float64) {
	lines := s.SplitTextToLines(text, font, maxWidth)
	for _, line := range lines {
		width = max(width, s.StringWidth(line, font))
	}
	return width, float64(len(lines)) * font.Leading()
}

// normalizeSpace collapses runs of horizontal whitespace and trims each line
func normalizeSpace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rows := strings.Split(text, "\n")
	for i, row := range rows {
		rows[i] = strings.Join(strings.FieldsFunc(row, func(r rune) bool {
			return r != '\n' && unicode.IsSpace(r)
		}), " ")
	}
	return strings.TrimSpace(strings.Join(rows, "\n"))
}
