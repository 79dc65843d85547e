package pagination

import (
	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
)

// Options represents options for the pagination engine
type Options struct {
	Geometry geometry.Geometry
}

// Engine handles the pagination process
type Engine struct {
	options Options
}

// NewEngine creates a new pagination engine with the default A4 geometry
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			Geometry: geometry.Default(),
		},
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// Paginate breaks a document into pages
func (e *Engine) Paginate(doc *block.Document) (*Result, error) {
	paginator := NewPaginator(e.options.Geometry)
	return paginator.Paginate(doc.Items())
}

// CalculatePageCount returns the number of pages the document needs
func (e *Engine) CalculatePageCount(doc *block.Document) (int, error) {
	paginator := NewPaginator(e.options.Geometry)
	return paginator.CalculatePageCount(doc.Items())
}
