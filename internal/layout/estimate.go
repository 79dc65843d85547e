// Package layout estimates how much vertical space content takes on a page.
//
// Estimators implement block.Estimator. They approximate the renderer's
// output: headings and paragraphs are wrapped with core PDF font metrics,
// images are scaled to the content width.
package layout

import (
	"errors"
	"fmt"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/parser/html"
	"github.com/gompdf/gompage/internal/text"
)

// ErrUnsupported is returned by an estimator that cannot measure a section;
// Chain moves on to the next estimator.
var ErrUnsupported = errors.New("section not supported by estimator")

// Options represents options for the text estimator
type Options struct {
	// Width is the content width text wraps at, in points
	Width float64

	Body  text.Font
	Title text.Font

	// ParagraphSpacing separates consecutive paragraphs
	ParagraphSpacing float64
	// TitleSpacing separates the title from the first paragraph
	TitleSpacing float64
	// Padding is added above and below every section
	Padding float64
}

// DefaultOptions matches the typography of the HTML and PDF renderers
func DefaultOptions(width float64) Options {
	return Options{
		Width:            width,
		Body:             text.DefaultFont,
		Title:            text.Font{Family: "Helvetica", Style: "B", Size: 15, LineHeight: 1.3},
		ParagraphSpacing: 6,
		TitleSpacing:     8,
		Padding:          8,
	}
}

// TextEstimator measures headings, paragraphs and HTML fragments of a section.
// When Images is set, a section image is measured with it and added.
type TextEstimator struct {
	options Options
	shaper  *text.TextShaper
	parser  *html.Parser
	Images  block.Estimator
}

// NewTextEstimator creates a text estimator
func NewTextEstimator(options Options) *TextEstimator {
	return &TextEstimator{
		options: options,
		shaper:  text.NewTextShaper(),
		parser:  html.NewParser(),
	}
}

// EstimateHeight implements block.Estimator
func (e *TextEstimator) EstimateHeight(s block.Section) (float64, error) {
	o := e.options
	height := 0.0
	parts := 0

	if s.Title != "" {
		lines := e.shaper.SplitTextToLines(s.Title, o.Title, o.Width)
		height += float64(len(lines)) * o.Title.Leading()
		parts++
	}

	paragraphs := append([]string(nil), s.Paragraphs...)
	if s.HTML != "" {
		nodes, err := e.parser.ParseFragment(s.HTML)
		if err != nil {
			return 0, fmt.Errorf("failed to parse section HTML: %w", err)
		}
		for _, n := range nodes {
			if t := n.Text(); t != "" {
				paragraphs = append(paragraphs, t)
			}
		}
	}

	for i, p := range paragraphs {
		lines := e.shaper.SplitTextToLines(p, o.Body, o.Width)
		if len(lines) == 0 {
			continue
		}
		switch {
		case i == 0 && s.Title != "":
			height += o.TitleSpacing
		case i > 0:
			height += o.ParagraphSpacing
		}
		height += float64(len(lines)) * o.Body.Leading()
		parts++
	}

	if s.Image != nil && e.Images != nil {
		h, err := e.Images.EstimateHeight(s)
		if err != nil && !errors.Is(err, ErrUnsupported) {
			return 0, err
		}
		if h > 0 {
			if parts > 0 {
				height += o.ParagraphSpacing
			}
			height += h
			parts++
		}
	}

	if parts == 0 {
		return 0, nil
	}
	return height + 2*o.Padding, nil
}

// Chain tries estimators in order; the first that does not return
// ErrUnsupported wins.
type Chain []block.Estimator

// EstimateHeight implements block.Estimator
func (c Chain) EstimateHeight(s block.Section) (float64, error) {
	for _, est := range c {
		h, err := est.EstimateHeight(s)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return h, err
	}
	return 0, ErrUnsupported
}
