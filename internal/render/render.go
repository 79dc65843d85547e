// Package render holds what every output strategy shares: the mode variant,
// the running header and footer, and the placement of bands on a sheet.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/pagination"
	"golang.org/x/net/html"
)

// ErrUnknownMode is returned by ParseMode for unrecognised names
var ErrUnknownMode = errors.New("unknown render mode")

// Mode selects how assembled pages are presented
type Mode int

const (
	// Preview shows each page as a separate sheet on screen
	Preview Mode = iota
	// Print maps pages onto physical sheets of the medium
	Print
)

func (m Mode) String() string {
	if m == Print {
		return "print"
	}
	return "preview"
}

// ParseMode parses "preview" or "print", case-insensitively
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preview", "screen", "":
		return Preview, nil
	case "print":
		return Print, nil
	}
	return Preview, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Chrome is the running header and footer repeated on every page
type Chrome struct {
	Header string
	// Footer is the caption shown next to the page number
	Footer      string
	PageNumbers bool
}

// DefaultFooter returns the footer caption used when none is configured
func DefaultFooter(now time.Time) string {
	return fmt.Sprintf("Confidential · %d", now.Year())
}

// DefaultChrome returns chrome with the default footer caption and page numbers
func DefaultChrome() Chrome {
	return Chrome{
		Footer:      DefaultFooter(time.Now()),
		PageNumbers: true,
	}
}

// PageLabel returns the footer page label for a 1-based page index
func (c Chrome) PageLabel(index int) string {
	if !c.PageNumbers {
		return ""
	}
	return fmt.Sprintf("Page %d", index)
}

// Input is what every strategy renders. Rendering never modifies it.
type Input struct {
	Title  string
	Result *pagination.Result
	Chrome Chrome
}

// Validate checks that the input carries an assembly result
func (in *Input) Validate() error {
	if in == nil || in.Result == nil {
		return errors.New("render input has no assembled pages")
	}
	return nil
}

// ContentFunc turns a block payload into HTML nodes placed in the content band
type ContentFunc func(b *block.ContentBlock) ([]*html.Node, error)

// Band is a horizontal strip of a sheet, in points from the top edge
type Band struct {
	Y      float64
	Height float64
}

// Bottom returns the y coordinate of the lower edge
func (b Band) Bottom() float64 {
	return b.Y + b.Height
}

// Frame places the header, content and footer bands on one sheet
type Frame struct {
	Width   float64
	Height  float64
	Margins geometry.Margins

	Header  Band
	Content Band
	Footer  Band
}

// ContentWidth returns the width between the side margins
func (f Frame) ContentWidth() float64 {
	return f.Width - f.Margins.Left - f.Margins.Right
}

// FrameFor lays out the bands of g. Geometries without a medium use the A4
// width; the sheet is never shorter than margins plus bands plus content.
func FrameFor(g geometry.Geometry) Frame {
	width := g.Medium.Width
	if width <= 0 {
		width = geometry.PageSizeA4.Width
	}
	m := g.Margins
	height := max(g.Medium.Height, m.Top+g.PageHeight()+m.Bottom)

	header := Band{Y: m.Top, Height: g.HeaderHeight}
	content := Band{Y: header.Bottom(), Height: g.ContentHeight}
	footer := Band{Y: content.Bottom(), Height: g.FooterHeight}

	return Frame{
		Width:   width,
		Height:  height,
		Margins: m,
		Header:  header,
		Content: content,
		Footer:  footer,
	}
}
