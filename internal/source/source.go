// Package source reads upstream documents into sections and a page medium.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/parser/css"
)

// ErrInvalidDocument is returned for input that cannot be read as a document
var ErrInvalidDocument = errors.New("invalid document")

// Document is the content of an upstream document together with the
// medium it asks to be printed on
type Document struct {
	Title  string
	Header string
	Footer string

	Medium  geometry.PageSize
	Margins geometry.Margins

	Sections []block.Section
}

// Geometry derives the page geometry of the document for the given band heights
func (d *Document) Geometry(header, footer float64) geometry.Geometry {
	return geometry.FromMedium(d.Medium, d.Margins, header, footer)
}

// Items builds the block sequence of the document
func (d *Document) Items(est block.Estimator) ([]block.Item, error) {
	return block.Build(d.Sections, est)
}

// newDocument returns an empty document on the default medium
func newDocument() *Document {
	return &Document{
		Medium:  geometry.PageSizeA4,
		Margins: geometry.DefaultMargins(),
	}
}

// applyPageSize sets the medium from a page size name or an @page size value
func (d *Document) applyPageSize(value, orientation string) error {
	value = strings.TrimSpace(value)
	if value != "" {
		ps, err := css.ParsePageSize(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}

		switch {
		case ps.Width > 0:
			d.Medium = geometry.PageSize{Width: ps.Width, Height: ps.Height}
		case ps.Name != "":
			size, ok := geometry.LookupPageSize(ps.Name)
			if !ok {
				return fmt.Errorf("%w: unknown page size %q", ErrInvalidDocument, ps.Name)
			}
			d.Medium = size
		}
		if orientation == "" {
			orientation = ps.Orientation
		}
	}

	switch strings.ToLower(strings.TrimSpace(orientation)) {
	case "":
	case "portrait":
		d.Medium = d.Medium.Portrait()
	case "landscape":
		d.Medium = d.Medium.Landscape()
	default:
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalidDocument, orientation)
	}
	return nil
}
