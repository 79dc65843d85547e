package block

import (
	"fmt"

	"github.com/gompdf/gompage/internal/geometry"
)

// Image is an image payload referenced by a section
type Image struct {
	Src    string
	Alt    string
	Width  float64 // intrinsic width in points when known
	Height float64 // intrinsic height in points when known
}

// Section is an upstream content unit, e.g. a heading followed by paragraphs
type Section struct {
	ID         string
	Title      string
	Paragraphs []string
	// HTML is an optional raw fragment rendered after the paragraphs
	HTML  string
	Image *Image
	Dir   string

	// KeepTogether marks the section atomic
	KeepTogether bool
	BreakBefore  bool
	BreakAfter   bool

	// Height overrides estimation when positive
	Height float64
}

// Estimator measures the height a section occupies on a page.
// Implementations live outside this package so the measuring method can be swapped.
type Estimator interface {
	EstimateHeight(s Section) (float64, error)
}

// EstimatorFunc adapts a function to the Estimator interface
type EstimatorFunc func(s Section) (float64, error)

// EstimateHeight calls f(s)
func (f EstimatorFunc) EstimateHeight(s Section) (float64, error) {
	return f(s)
}

// Build turns sections into an item sequence.
//
// A positive Section.Height is used as is, otherwise est measures the section.
// KeepTogether sections become atomic blocks. BreakBefore on any section but the
// first and BreakAfter insert PageBreak markers.
func Build(sections []Section, est Estimator) ([]Item, error) {
	items := make([]Item, 0, len(sections))

	for i, s := range sections {
		if s.BreakBefore && i > 0 {
			items = append(items, PageBreak{})
		}

		height := s.Height
		if height == 0 && est != nil {
			h, err := est.EstimateHeight(s)
			if err != nil {
				return nil, fmt.Errorf("failed to estimate height of section %d: %w", i, err)
			}
			height = h
		}
		if height < 0 || !geometry.Finite(height) {
			return nil, fmt.Errorf("%w: section %d has invalid height %v", geometry.ErrInvalidGeometry, i, height)
		}

		// positional IDs keep repeated builds of the same sections comparable
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}

		kind := Floatable
		if s.KeepTogether {
			kind = Atomic
		}

		b, err := NewBlock(id, kind, height, s)
		if err != nil {
			return nil, err
		}
		items = append(items, b)

		if s.BreakAfter {
			items = append(items, PageBreak{})
		}
	}

	return items, nil
}
