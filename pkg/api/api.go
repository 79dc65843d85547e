// Package api is the public entry point of gompage: it builds documents from
// sections, assembles them into pages and renders the pages.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/layout"
	"github.com/gompdf/gompage/internal/pagination"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/render/htmlpage"
	"github.com/gompdf/gompage/internal/render/pdf"
	"github.com/gompdf/gompage/internal/render/term"
	"github.com/gompdf/gompage/internal/res"
	"github.com/gompdf/gompage/internal/source"
)

// ErrUnknownFormat is returned for output formats the paginator cannot write
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the output written by Convert
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name; "txt" and "term" are accepted for text
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	case "text", "txt", "term":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath guesses the format from a file extension, defaulting to HTML
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatHTML
}

// Paginator is the main API for turning content into pages
type Paginator struct {
	options Options
	loader  *res.Loader
}

// New creates a paginator from the default options modified by opts
func New(opts ...Option) *Paginator {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a paginator with the specified options
func NewWithOptions(options Options) *Paginator {
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	loader := res.NewLoader("")
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return &Paginator{options: options, loader: loader}
}

// Options returns the paginator's options
func (p *Paginator) Options() Options {
	return p.options
}

// Loader returns the resource loader used for images and stylesheets
func (p *Paginator) Loader() *res.Loader {
	return p.loader
}

// Geometry returns the page geometry of the paginator
func (p *Paginator) Geometry() geometry.Geometry {
	return p.options.Geometry()
}

// WithOption returns a new paginator with the specified option set.
// The resource loader is shared.
func (p *Paginator) WithOption(options ...Option) *Paginator {
	newOptions := p.options
	newOptions.ResourcePaths = append([]string(nil), p.options.ResourcePaths...)
	for _, opt := range options {
		opt(&newOptions)
	}
	return &Paginator{options: newOptions, loader: p.loader}
}

// ForSource returns a paginator using the medium, margins and captions of doc.
// Captions the document leaves empty keep the paginator's values.
func (p *Paginator) ForSource(doc *source.Document) *Paginator {
	opts := []Option{
		WithPageSize(doc.Medium.Width, doc.Medium.Height),
		WithMargins(doc.Margins.Top, doc.Margins.Right, doc.Margins.Bottom, doc.Margins.Left),
		WithPageOrientation(PageOrientationPortrait),
	}
	if doc.Medium.Width > doc.Medium.Height {
		opts = append(opts, WithPageOrientation(PageOrientationLandscape))
	}
	if doc.Header != "" {
		opts = append(opts, func(o *Options) { o.Header = doc.Header })
	}
	if doc.Footer != "" {
		opts = append(opts, func(o *Options) { o.Footer = doc.Footer })
	}
	if doc.Title != "" && p.options.Title == "" {
		opts = append(opts, WithTitle(doc.Title))
	}
	return p.WithOption(opts...)
}

// Estimator returns the configured estimator, or text metrics with images
// measured through the resource loader
func (p *Paginator) Estimator() block.Estimator {
	if p.options.Estimator != nil {
		return p.options.Estimator
	}
	width := p.Geometry().ContentWidth()
	est := layout.NewTextEstimator(layout.DefaultOptions(width))
	est.Images = layout.NewImageEstimator(p.loader, width)
	return est
}

// Build turns sections into a new document
func (p *Paginator) Build(sections []block.Section) (*block.Document, error) {
	items, err := block.Build(sections, p.Estimator())
	if err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return block.NewDocument(items...), nil
}

// Assemble distributes the document over pages
func (p *Paginator) Assemble(doc *block.Document) (*pagination.Result, error) {
	engine := pagination.NewEngine()
	engine.SetOptions(pagination.Options{Geometry: p.Geometry()})

	result, err := engine.Paginate(doc)
	if err != nil {
		return nil, err
	}

	if p.options.Debug {
		p.options.Logger.Printf("Assembled %d blocks into %d pages", len(doc.Blocks()), result.PageCount())
		for _, d := range result.Diagnostics {
			p.options.Logger.Printf("Diagnostic: %s", d)
		}
	}
	return result, nil
}

// Paginate builds and assembles sections
func (p *Paginator) Paginate(sections []block.Section) (*block.Document, *pagination.Result, error) {
	doc, err := p.Build(sections)
	if err != nil {
		return nil, nil, err
	}
	result, err := p.Assemble(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, result, nil
}

// Input wraps a result with the paginator's title and chrome for rendering
func (p *Paginator) Input(result *pagination.Result) *render.Input {
	return &render.Input{
		Title:  p.options.Title,
		Result: result,
		Chrome: p.options.Chrome(),
	}
}

// RenderHTML writes the pages as an HTML document in the given mode
func (p *Paginator) RenderHTML(w io.Writer, result *pagination.Result, mode render.Mode) error {
	r := htmlpage.NewRenderer(p.loader)
	r.PrintButton = p.options.PrintButton
	r.PrintAction = p.options.PrintAction
	r.Debug = p.options.Debug
	r.Logger = p.options.Logger
	return r.Render(w, p.Input(result), mode)
}

// RenderPDF writes the pages as a PDF with one physical page per assembled page
func (p *Paginator) RenderPDF(w io.Writer, result *pagination.Result) error {
	r := pdf.NewRenderer(p.loader)
	r.Debug = p.options.Debug
	r.DebugDrawBands = p.options.DebugDrawBands
	r.Logger = p.options.Logger

	err := r.Render(w, p.Input(result), pdf.RenderOptions{
		Title:    p.options.Title,
		Author:   p.options.Author,
		Subject:  p.options.Subject,
		Keywords: p.options.Keywords,
		Creator:  "gompage",
		Producer: "gompage",
	})
	if err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// RenderText writes a terminal preview of the pages
func (p *Paginator) RenderText(w io.Writer, result *pagination.Result) error {
	return term.NewRenderer().Render(w, p.Input(result))
}

// Render writes result in the given format; mode applies to HTML only
func (p *Paginator) Render(w io.Writer, result *pagination.Result, format Format, mode render.Mode) error {
	switch format {
	case FormatHTML:
		return p.RenderHTML(w, result, mode)
	case FormatPDF:
		return p.RenderPDF(w, result)
	case FormatText:
		return p.RenderText(w, result)
	case FormatJSON:
		return WriteJSON(w, result)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Load reads an HTML or JSON document from a file. Relative resources
// resolve against the file's directory.
func (p *Paginator) Load(ctx context.Context, path string) (*source.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	loader := res.NewLoader(path)
	for _, dir := range p.options.ResourcePaths {
		loader.AddSearchPath(dir)
	}
	p.loader = loader

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return source.FromJSON(bytes.NewReader(data))
	}
	return source.FromHTMLContext(ctx, bytes.NewReader(data), loader)
}

// Convert assembles doc and writes it in the given format and mode
func (p *Paginator) Convert(doc *source.Document, w io.Writer, format Format, mode render.Mode) error {
	dp := p.ForSource(doc)
	_, result, err := dp.Paginate(doc.Sections)
	if err != nil {
		return err
	}
	return dp.Render(w, result, format, mode)
}

// ConvertFile reads inputPath and writes outputPath; the format follows
// the output extension
func (p *Paginator) ConvertFile(ctx context.Context, inputPath, outputPath string, mode render.Mode) error {
	doc, err := p.Load(ctx, inputPath)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := p.Convert(doc, f, FormatFromPath(outputPath), mode); err != nil {
		return err
	}
	return f.Close()
}
