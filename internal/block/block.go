// Package block defines the content units the paginator places on pages.
//
// A document is an ordered sequence of Items. An Item is either a
// *ContentBlock or a PageBreak marker. Blocks are atomic (never split across
// pages) or floatable (the renderer may let them reflow past a boundary).
package block

import (
	"fmt"

	"github.com/gompdf/gompage/internal/geometry"
)

// Kind tells the assembler whether a block may be split
type Kind int

const (
	// Floatable blocks may conceptually continue across a page boundary
	Floatable Kind = iota
	// Atomic blocks are always moved wholesale to the next page
	Atomic
)

func (k Kind) String() string {
	if k == Atomic {
		return "atomic"
	}
	return "floatable"
}

// Item is one entry of a document sequence: *ContentBlock or PageBreak
type Item interface {
	isItem()
}

// ContentBlock is one unit of content placed on a page
type ContentBlock struct {
	ID     string
	Kind   Kind
	Height float64
	// Content is the payload eventually rendered; the assembler never reads it
	Content any
}

func (*ContentBlock) isItem() {}

// PageBreak forces the current page to end after the preceding block.
// It occupies no space.
type PageBreak struct{}

func (PageBreak) isItem() {}

// NewBlock creates a content block, rejecting negative heights
func NewBlock(id string, kind Kind, height float64, content any) (*ContentBlock, error) {
	if !geometry.Finite(height) {
		return nil, fmt.Errorf("%w: block %q has non-finite height %v", geometry.ErrInvalidGeometry, id, height)
	}
	if height < 0 {
		return nil, fmt.Errorf("%w: block %q has negative height %.2f", geometry.ErrInvalidGeometry, id, height)
	}
	return &ContentBlock{
		ID:      id,
		Kind:    kind,
		Height:  height,
		Content: content,
	}, nil
}

// IsAtomic reports whether the block must never be split
func (b *ContentBlock) IsAtomic() bool {
	return b.Kind == Atomic
}
