package pagination

import (
	"fmt"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
)

// Page represents a single assembled page
type Page struct {
	// Index is 1-based and contiguous across a Result
	Index int
	// Blocks references blocks owned by the document
	Blocks []*block.ContentBlock
	// Used is the sum of block heights on the page
	Used float64
	// Overflow is set when Used exceeds the content height
	Overflow bool
}

// IsEmpty reports whether the page holds no blocks
func (p *Page) IsEmpty() bool {
	return len(p.Blocks) == 0
}

// Result is the output of one assembly pass
type Result struct {
	Pages       []*Page
	Diagnostics []Diagnostic
	Geometry    geometry.Geometry
}

// PageCount returns the number of pages
func (r *Result) PageCount() int {
	return len(r.Pages)
}

// Paginator distributes items over pages of a fixed geometry
type Paginator struct {
	Geometry geometry.Geometry
}

// NewPaginator creates a new paginator
func NewPaginator(g geometry.Geometry) *Paginator {
	return &Paginator{Geometry: g}
}

// Paginate assembles items with the paginator's geometry
func (p *Paginator) Paginate(items []block.Item) (*Result, error) {
	return Assemble(items, p.Geometry)
}

// CalculatePageCount returns the number of pages items need
func (p *Paginator) CalculatePageCount(items []block.Item) (int, error) {
	res, err := p.Paginate(items)
	if err != nil {
		return 0, err
	}
	return res.PageCount(), nil
}

// Assemble places items on pages using greedy first-fit.
//
// A block that does not fit the remaining space starts a new page. A block
// taller than the content height sits alone on its own page and overflows it,
// which is reported as a diagnostic. PageBreak markers end the current page
// but never produce an empty one. Empty input yields a single empty page.
//
// The geometry and the block heights are validated before any page is
// built; on error no pages are returned.
func Assemble(items []block.Item, g geometry.Geometry) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if b, ok := item.(*block.ContentBlock); ok && b != nil && (b.Height < 0 || !geometry.Finite(b.Height)) {
			return nil, fmt.Errorf("%w: block %q has invalid height %v", geometry.ErrInvalidGeometry, b.ID, b.Height)
		}
	}

	a := &assembler{limit: g.ContentHeight}
	a.open()

	for _, item := range items {
		switch it := item.(type) {
		case block.PageBreak:
			a.breakPage()
		case *block.ContentBlock:
			if it != nil {
				a.place(it)
			}
		}
	}

	a.close()

	return &Result{
		Pages:       a.pages,
		Diagnostics: a.diagnostics,
		Geometry:    g,
	}, nil
}

type assembler struct {
	limit       float64
	remaining   float64
	current     *Page
	pages       []*Page
	diagnostics []Diagnostic
}

func (a *assembler) open() {
	a.current = &Page{Index: len(a.pages) + 1}
	a.remaining = a.limit
}

// close appends the current page; an empty page is only kept when it would
// be the only page of the result.
func (a *assembler) close() {
	if a.current.IsEmpty() && len(a.pages) > 0 {
		return
	}
	a.pages = append(a.pages, a.current)
}

func (a *assembler) breakPage() {
	if a.current.IsEmpty() {
		return
	}
	a.pages = append(a.pages, a.current)
	a.open()
}

func (a *assembler) place(b *block.ContentBlock) {
	if b.Height > a.remaining && !a.current.IsEmpty() {
		a.pages = append(a.pages, a.current)
		a.open()
	}

	a.current.Blocks = append(a.current.Blocks, b)
	a.current.Used += b.Height
	a.remaining -= b.Height

	if b.Height > a.limit {
		a.current.Overflow = true
		kind := OversizedFloatableBlock
		if b.IsAtomic() {
			kind = OversizedAtomicBlock
		}
		a.diagnostics = append(a.diagnostics, Diagnostic{
			Kind:      kind,
			BlockID:   b.ID,
			PageIndex: a.current.Index,
			Height:    b.Height,
			Limit:     a.limit,
		})
	}

	// an oversized block owns its page
	if a.remaining < 0 {
		a.pages = append(a.pages, a.current)
		a.open()
	}
}
