package api

import (
	"log"
	"time"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/render"
)

// Options represents configuration options for the paginator
type Options struct {
	// Page dimensions in points
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Page margins in points
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// Heights of the running header and footer bands in points
	HeaderHeight float64
	FooterHeight float64

	// Running header text and footer caption
	Header      string
	Footer      string
	PageNumbers bool

	// PrintButton adds a print action to HTML previews; PrintAction is the
	// URL it posts to, empty for the browser's own print dialog
	PrintButton bool
	PrintAction string

	// Estimator measures sections; nil uses the text and image estimators
	Estimator block.Estimator

	Debug bool
	// DebugDrawBands outlines the page bands in PDF output
	DebugDrawBands bool
	Logger         *log.Logger

	// Resource paths searched for images and stylesheets
	ResourcePaths []string

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns A4 portrait with 15mm/20mm/20mm/20mm margins,
// 12mm header and footer bands and numbered pages
func DefaultOptions() Options {
	m := geometry.DefaultMargins()
	return Options{
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		MarginTop:    m.Top,
		MarginRight:  m.Right,
		MarginBottom: m.Bottom,
		MarginLeft:   m.Left,

		HeaderHeight: geometry.MM(12),
		FooterHeight: geometry.MM(12),

		Footer:      render.DefaultFooter(time.Now()),
		PageNumbers: true,
		PrintButton: true,

		Logger:        log.Default(),
		ResourcePaths: []string{},
	}
}

// Geometry derives the page geometry from the medium, margins and bands
func (o Options) Geometry() geometry.Geometry {
	size := geometry.PageSize{Width: o.PageWidth, Height: o.PageHeight}
	if o.PageOrientation == PageOrientationLandscape {
		size = size.Landscape()
	} else {
		size = size.Portrait()
	}
	margins := geometry.Margins{
		Top:    o.MarginTop,
		Right:  o.MarginRight,
		Bottom: o.MarginBottom,
		Left:   o.MarginLeft,
	}
	return geometry.FromMedium(size, margins, o.HeaderHeight, o.FooterHeight)
}

// Chrome returns the running header and footer
func (o Options) Chrome() render.Chrome {
	return render.Chrome{
		Header:      o.Header,
		Footer:      o.Footer,
		PageNumbers: o.PageNumbers,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithNamedPageSize sets a standard page size such as "A4" or "letter".
// Unknown names leave the size unchanged.
func WithNamedPageSize(name string) Option {
	return func(o *Options) {
		if size, ok := geometry.LookupPageSize(name); ok {
			o.PageWidth = size.Width
			o.PageHeight = size.Height
		}
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithBands sets the heights of the header and footer bands
func WithBands(header, footer float64) Option {
	return func(o *Options) {
		o.HeaderHeight = header
		o.FooterHeight = footer
	}
}

// WithChrome sets the running header text and footer caption
func WithChrome(header, footer string) Option {
	return func(o *Options) {
		o.Header = header
		o.Footer = footer
	}
}

// WithPageNumbers toggles "Page N" in the footer
func WithPageNumbers(enabled bool) Option {
	return func(o *Options) {
		o.PageNumbers = enabled
	}
}

// WithPrintAction makes the preview print button post to url
func WithPrintAction(url string) Option {
	return func(o *Options) {
		o.PrintButton = true
		o.PrintAction = url
	}
}

// WithEstimator sets the height estimation strategy
func WithEstimator(est block.Estimator) Option {
	return func(o *Options) {
		o.Estimator = est
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// Standard page sizes in points (1/72 inch)
const (
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}
