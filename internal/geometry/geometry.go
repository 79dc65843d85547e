package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidGeometry is returned when a page geometry cannot hold any content
var ErrInvalidGeometry = errors.New("invalid geometry")

// PointsPerMM converts millimetres to PDF points (1/72 inch)
const PointsPerMM = 72.0 / 25.4

// MM converts a length in millimetres to points
func MM(v float64) float64 {
	return v * PointsPerMM
}

// PageSize represents a physical medium size in points
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
)

// LookupPageSize returns the named standard size, case-insensitively
func LookupPageSize(name string) (PageSize, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a3":
		return PageSizeA3, true
	case "a4", "":
		return PageSizeA4, true
	case "a5":
		return PageSizeA5, true
	case "letter":
		return PageSizeLetter, true
	case "legal":
		return PageSizeLegal, true
	}
	return PageSize{}, false
}

// Landscape returns the size with width and height swapped so that width > height
func (s PageSize) Landscape() PageSize {
	if s.Width < s.Height {
		s.Width, s.Height = s.Height, s.Width
	}
	return s
}

// Portrait returns the size with height >= width
func (s PageSize) Portrait() PageSize {
	if s.Width > s.Height {
		s.Width, s.Height = s.Height, s.Width
	}
	return s
}

// Margins represents page margins in points
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins mirrors the print margins of the reference layout: 15mm top, 20mm elsewhere.
func DefaultMargins() Margins {
	return Margins{Top: MM(15), Right: MM(20), Bottom: MM(20), Left: MM(20)}
}

// Geometry describes how much content fits on one page.
//
// ContentHeight excludes the header and footer bands. Medium and Margins
// describe the physical sheet used in print mode.
type Geometry struct {
	ContentHeight float64
	HeaderHeight  float64
	FooterHeight  float64

	Medium  PageSize
	Margins Margins
}

// FromMedium derives a geometry whose content band fills the medium between
// the margins and the header/footer bands.
func FromMedium(size PageSize, margins Margins, header, footer float64) Geometry {
	return Geometry{
		ContentHeight: size.Height - margins.Top - margins.Bottom - header - footer,
		HeaderHeight:  header,
		FooterHeight:  footer,
		Medium:        size,
		Margins:       margins,
	}
}

// Default returns the A4 geometry with default margins and 12mm bands
func Default() Geometry {
	return FromMedium(PageSizeA4, DefaultMargins(), MM(12), MM(12))
}

// Validate reports ErrInvalidGeometry for a content height that is not a
// positive finite number, or band heights that are negative or not finite.
func (g Geometry) Validate() error {
	if !(g.ContentHeight > 0) || math.IsInf(g.ContentHeight, 1) {
		return fmt.Errorf("%w: content height must be positive, got %.2f", ErrInvalidGeometry, g.ContentHeight)
	}
	if !(g.HeaderHeight >= 0) || math.IsInf(g.HeaderHeight, 1) {
		return fmt.Errorf("%w: header height must not be negative, got %.2f", ErrInvalidGeometry, g.HeaderHeight)
	}
	if !(g.FooterHeight >= 0) || math.IsInf(g.FooterHeight, 1) {
		return fmt.Errorf("%w: footer height must not be negative, got %.2f", ErrInvalidGeometry, g.FooterHeight)
	}
	return nil
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ContentWidth returns the usable width of the medium between the side margins
func (g Geometry) ContentWidth() float64 {
	return g.Medium.Width - g.Margins.Left - g.Margins.Right
}

// PageHeight returns the full height of one page: bands plus content band
func (g Geometry) PageHeight() float64 {
	return g.HeaderHeight + g.ContentHeight + g.FooterHeight
}
